package server

import "html/template"

// chatPageHTML is the visitor-facing chat page. The session rides in a
// signed cookie, so the page only posts the message text.
const chatPageHTML = `<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Fale com a gente</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
    .wrap { max-width: 720px; margin: 0 auto; padding: 20px; }
    .panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; }
    #log { min-height: 320px; max-height: 60vh; overflow: auto; white-space: pre-wrap; border: 1px solid #d1d5db; border-radius: 8px; padding: 12px; background: #f9fafb; }
    .row { display: flex; gap: 8px; margin-top: 10px; }
    input { flex: 1; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; }
    button { padding: 10px 16px; border: 0; border-radius: 8px; background: #2563eb; color: #fff; cursor: pointer; }
    button:hover { background: #1d4ed8; }
  </style>
</head>
<body>
  <div class="wrap">
    <div class="panel">
      <h2>Fale com a gente</h2>
      <div id="log"></div>
      <div class="row">
        <input id="msg" placeholder="Digite sua mensagem..." />
        <button id="send">Enviar</button>
      </div>
    </div>
  </div>
  <script>
    const log = document.getElementById('log');
    const msg = document.getElementById('msg');
    const send = document.getElementById('send');
    const append = (role, text) => { log.textContent += role + ': ' + text + '\n\n'; log.scrollTop = log.scrollHeight; };
    async function sendMessage() {
      const text = msg.value.trim();
      if (!text) return;
      append('Você', text);
      msg.value = '';
      const resp = await fetch('/chat', { method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify({ message: text })});
      const data = await resp.json();
      append('Atendente', data.response || data.error || '(vazio)');
    }
    send.addEventListener('click', sendMessage);
    msg.addEventListener('keydown', (e) => { if (e.key === 'Enter') sendMessage(); });
  </script>
</body>
</html>`

var adminTemplate = template.Must(template.New("admin").Parse(`<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Admin - Leads</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; padding: 20px; background: #f8fafc; }
    .header { background: linear-gradient(135deg, #2563eb 0%, #1e40af 100%); color: white; padding: 2rem; border-radius: 12px; margin-bottom: 2rem; }
    .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
    .stat-card { background: white; padding: 1.5rem; border-radius: 12px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .stat-number { font-size: 2rem; font-weight: bold; color: #2563eb; }
    .stat-label { color: #64748b; font-size: 0.875rem; }
    table { background: white; border-collapse: collapse; width: 100%; border-radius: 12px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    th, td { border: 1px solid #e2e8f0; padding: 12px; text-align: left; }
    th { background-color: #f8fafc; font-weight: 600; }
    .qualified { color: #059669; font-weight: bold; }
    .not-qualified { color: #d97706; }
    .back-link { display: inline-block; margin-top: 2rem; padding: 0.75rem 1.5rem; background: #2563eb; color: white; text-decoration: none; border-radius: 8px; }
    .back-link:hover { background: #1d4ed8; }
    .empty-state { text-align: center; padding: 4rem; color: #64748b; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Dashboard Administrativo</h1>
    <p>Gestão de leads capturados</p>
    <p><strong>Banco:</strong> {{.Engine}} &bull; <strong>Ambiente:</strong> {{.Env}}</p>
  </div>

  <div class="stats">
    <div class="stat-card">
      <div class="stat-number">{{.Stats.TotalLeads}}</div>
      <div class="stat-label">Total de Leads</div>
    </div>
    <div class="stat-card">
      <div class="stat-number">{{.Stats.LeadsQualificados}}</div>
      <div class="stat-label">Leads Qualificados</div>
    </div>
    <div class="stat-card">
      <div class="stat-number">{{.Stats.TaxaQualificacao}}%</div>
      <div class="stat-label">Taxa de Qualificação</div>
    </div>
    <div class="stat-card">
      <div class="stat-number">{{.Stats.LeadsComEmail}}</div>
      <div class="stat-label">Leads com Email</div>
    </div>
  </div>

{{if .Leads}}
  <table>
    <tr>
      <th>Data</th>
      <th>Nome</th>
      <th>Empresa</th>
      <th>Segmento</th>
      <th>Problema</th>
      <th>Investimento</th>
      <th>Telefone</th>
      <th>Email</th>
      <th>Qualificado</th>
      <th>Mensagens</th>
    </tr>
  {{range .Leads}}
    <tr>
      <td>{{.CreatedAt}}</td>
      <td>{{.Nome}}</td>
      <td>{{.Empresa}}</td>
      <td>{{.Segmento}}</td>
      <td title="{{.ProblemaFull}}">{{.Problema}}</td>
      <td>{{.Investimento}}</td>
      <td>{{.Telefone}}</td>
      <td>{{.Email}}</td>
      {{if .Qualificado}}<td class="qualified">Sim</td>{{else}}<td class="not-qualified">Não</td>{{end}}
      <td>{{.TotalMensagens}}</td>
    </tr>
  {{end}}
  </table>
{{else}}
  <div class="empty-state">
    <h3>Nenhum lead capturado ainda</h3>
    <p>Quando alguém conversar com o chat, os dados aparecerão aqui.</p>
  </div>
{{end}}

  <a href="/" class="back-link">&larr; Voltar ao chat</a>
</body>
</html>`))
