package server

import (
	"bytes"
	"html/template"

	"novel_tweet_copywriter/generator"
	"novel_tweet_copywriter/render"
)

type IndexPageData struct {
	Styles   []generator.Style
	MinCount int
	MaxCount int
	Result   *render.Fragments
}

func RenderIndexHTML(data IndexPageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexPageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var indexPageTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="zh-CN">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>小说推文文案生成器</title>
    <style>
      :root { --bg: #0b1020; --panel: #111832; --text: #e9edf7; --muted: #a5b0cc; --border: rgba(255,255,255,0.10); --accent: #7aa2ff; --good: #2dd4bf; --warn: #fbbf24; --bad: #fb7185; }
      * { box-sizing: border-box; }
      body { margin: 0; font-family: ui-sans-serif, system-ui, -apple-system, "PingFang SC", "Microsoft YaHei", sans-serif; color: var(--text); background: var(--bg); }
      .container { max-width: 1024px; margin: 0 auto; padding: 16px; }
      .card { background: var(--panel); border: 1px solid var(--border); border-radius: 12px; padding: 16px; margin-bottom: 16px; }
      select, input[type="range"] { width: 100%; }
      select { background: #0b1220; color: var(--text); border: 1px solid var(--border); border-radius: 6px; padding: 8px; }
      .btn { background: #2563eb; color: #fff; border: 0; padding: 8px 12px; border-radius: 6px; cursor: pointer; }
      .btn[disabled] { opacity: 0.5; cursor: not-allowed; }
      .muted, .text-muted { color: var(--muted); }
      .progress { height: 8px; background: rgba(255,255,255,0.08); border-radius: 999px; overflow: hidden; }
      .progress-bar { height: 100%; width: 0%; background: var(--accent); transition: width 0.5s ease; }
      .title-item, .content-item, .image-suggestion { border: 1px solid var(--border); border-radius: 10px; padding: 10px 12px; margin-bottom: 10px; }
      .badge, .style-badge, .tool-count { display: inline-block; padding: 2px 8px; border-radius: 999px; font-size: 12px; background: rgba(122,162,255,0.18); margin-right: 6px; }
      .content-text { line-height: 1.8; }
      #alerts { position: fixed; top: 20px; right: 20px; z-index: 9999; min-width: 300px; }
      .alert { padding: 10px 14px; border-radius: 8px; margin-bottom: 8px; background: #1f2937; border-left: 4px solid var(--accent); }
      .alert-success { border-color: var(--good); } .alert-warning { border-color: var(--warn); } .alert-danger { border-color: var(--bad); }
      dialog { background: var(--panel); color: var(--text); border: 1px solid var(--border); border-radius: 12px; max-width: 900px; width: 90%; }
      dialog .content-text { max-height: 60vh; overflow-y: auto; white-space: pre-wrap; }
    </style>
  </head>
  <body>
    <div id="alerts"></div>
    <div class="container">
      <h1>🔥 小说推文文案生成器</h1>

      <form id="generateForm" class="card">
        <label for="style1">文案风格</label>
        <select id="style1" name="style1">
          {{range .Styles}}<option value="{{.Tag}}" data-description="{{.Description}}" data-tone="{{.Tone}}">{{.Name}}</option>
          {{end}}
        </select>
        <p id="style1-desc" class="muted"></p>

        <label for="count1">工具数量 <span id="count1-display">{{.MinCount}}个</span></label>
        <input type="range" id="count1" name="count1" min="{{.MinCount}}" max="{{.MaxCount}}" value="{{.MinCount}}" />

        <p><button id="generateBtn" class="btn" type="submit">生成文案</button>
        <span class="muted">Ctrl/Cmd + Enter 生成，Ctrl/Cmd + C 复制全部</span></p>
      </form>

      <div id="loadingSection" class="card" style="display:none">
        <h5 id="loadingText">AI正在创作中，请稍候...</h5>
        <div class="progress"><div class="progress-bar"></div></div>
      </div>

      <div id="resultSection" class="card" {{if not .Result}}style="display:none"{{end}}>
        <p>
          <button class="btn" type="button" onclick="copyAllContent()">复制全部</button>
          <button class="btn" type="button" onclick="downloadContent()">下载文档</button>
        </p>
        <div id="resultContainer">{{with .Result}}{{.HTML}}{{end}}</div>
      </div>

      <p class="muted">生成时间: <span id="footerTime">{{with .Result}}{{.GeneratedAt}}{{end}}</span></p>
    </div>

    <dialog id="contentModal">
      <h5 id="modalTitle"></h5>
      <small class="text-muted" id="modalTools"></small>
      <div class="content-text" id="modalText"></div>
      <p>
        <button class="btn" type="button" onclick="copyText(document.getElementById('modalText').textContent)">复制内容</button>
        <button class="btn" type="button" onclick="document.getElementById('contentModal').close()">关闭</button>
      </p>
    </dialog>

    <script>
      const form = document.getElementById('generateForm');
      const btn = document.getElementById('generateBtn');
      const loading = document.getElementById('loadingSection');
      const bar = document.querySelector('#loadingSection .progress-bar');

      function updateStyleDescription() {
        const opt = form.style1.options[form.style1.selectedIndex];
        if (!opt) return;
        document.getElementById('style1-desc').textContent = opt.dataset.description + ' (' + opt.dataset.tone + ')';
      }
      function updateCountDisplay() {
        document.getElementById('count1-display').textContent = form.count1.value + '个';
      }
      form.style1.addEventListener('change', updateStyleDescription);
      form.count1.addEventListener('input', updateCountDisplay);
      updateStyleDescription();

      function formValues() {
        return { style1: form.style1.value, count1: form.count1.value };
      }

      form.addEventListener('submit', (e) => {
        e.preventDefault();
        fetch('/ui/submit', { method: 'POST', body: new URLSearchParams(formValues()) });
      });

      function showAlert(message, level, ttlMs) {
        const div = document.createElement('div');
        div.className = 'alert alert-' + (level || 'info');
        div.textContent = message;
        document.getElementById('alerts').appendChild(div);
        setTimeout(() => div.remove(), ttlMs || 5000);
      }

      function fallbackCopyText(text) {
        const ta = document.createElement('textarea');
        ta.value = text;
        document.body.appendChild(ta);
        ta.focus();
        ta.select();
        let ok = false;
        try { ok = document.execCommand('copy'); } catch (e) { ok = false; }
        document.body.removeChild(ta);
        if (ok) { showAlert('复制成功！', 'success', 2000); } else { showAlert('复制失败，请手动复制', 'warning'); }
      }

      async function copyText(text) {
        try {
          await navigator.clipboard.writeText(text);
          showAlert('复制成功！', 'success', 2000);
        } catch (e) {
          fallbackCopyText(text);
        }
      }

      function copyAllContent() {
        fetch('/ui/copy', { method: 'POST' });
      }

      async function downloadContent() {
        const resp = await fetch('/ui/download');
        if (!resp.ok) return;
        const blob = await resp.blob();
        const url = URL.createObjectURL(blob);
        const a = document.createElement('a');
        a.href = url;
        a.download = decodeURIComponent(resp.headers.get('X-Filename') || 'download.txt');
        document.body.appendChild(a);
        a.click();
        document.body.removeChild(a);
        URL.revokeObjectURL(url);
      }

      function showContentModal(style, tools, content) {
        document.getElementById('modalTitle').textContent = style + ' - 详细内容';
        document.getElementById('modalTools').textContent = '包含工具: ' + tools;
        document.getElementById('modalText').textContent = content;
        document.getElementById('contentModal').showModal();
      }

      function setBusy(busy) {
        btn.disabled = busy;
        loading.style.display = busy ? 'block' : 'none';
      }

      const handlers = {
        snapshot: (d) => { setBusy(d.busy); bar.style.width = d.progress + '%'; if (d.status) document.getElementById('loadingText').textContent = d.status; },
        busy: setBusy,
        progress: (p) => { bar.style.width = p + '%'; },
        status: (t) => { document.getElementById('loadingText').textContent = t; },
        result: (d) => {
          document.getElementById('resultContainer').innerHTML = d.html;
          document.getElementById('footerTime').textContent = d.generatedAt;
          const section = document.getElementById('resultSection');
          section.style.display = 'block';
          section.scrollIntoView({ behavior: 'smooth', block: 'start' });
        },
        notice: (n) => showAlert(n.message, n.level, n.ttlMs),
        clipboard: copyText,
      };

      const events = new EventSource('/ui/events');
      events.onmessage = (e) => {
        const ev = JSON.parse(e.data);
        const h = handlers[ev.type];
        if (h) h(ev.data);
      };

      function hasResult() {
        return document.getElementById('resultContainer').children.length > 0;
      }

      document.addEventListener('keydown', (e) => {
        if (!(e.ctrlKey || e.metaKey)) return;
        const inTextInput = e.target.matches('input, textarea, select');
        const key = e.key.toLowerCase();
        if (key === 'enter' || (key === 'c' && hasResult() && !inTextInput && !window.getSelection().toString())) {
          e.preventDefault();
          fetch('/ui/key', {
            method: 'POST',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify({ key: e.key, ctrl: e.ctrlKey, meta: e.metaKey, inTextInput: inTextInput, form: formValues() }),
          });
        }
      });
    </script>
  </body>
</html>
`))
