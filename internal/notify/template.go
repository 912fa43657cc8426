package notify

const summaryHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Youth justice spending summary: {{.FiscalYear}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #1e3a5f 0%, #2d4a6b 100%);
      color: #ffffff;
    }

    .year {
      font-size: 24px;
      font-weight: 700;
      letter-spacing: 0.05em;
      margin-bottom: 4px;
    }

    .subtitle {
      font-size: 15px;
      opacity: 0.9;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
    }

    .section-title {
      font-size: 11px;
      font-weight: 700;
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.1em;
      margin-bottom: 12px;
    }

    .split-grid {
      display: table;
      width: 100%;
      font-size: 14px;
    }

    .split-row {
      display: table-row;
    }

    .split-label {
      display: table-cell;
      padding: 6px 16px 6px 0;
      color: #6b7280;
      font-weight: 500;
      white-space: nowrap;
      width: 120px;
    }

    .split-value {
      display: table-cell;
      padding: 6px 0;
      color: #111827;
    }

    .pct {
      display: inline-block;
      margin-left: 8px;
      padding: 2px 8px;
      font-size: 12px;
      font-weight: 600;
      border-radius: 4px;
      background: #e0f2fe;
      color: #0369a1;
    }

    .stat-list {
      margin: 0;
      padding-left: 20px;
      font-size: 14px;
    }

    .stat-list li {
      margin-bottom: 8px;
      padding-left: 4px;
    }

    .stat-type {
      display: inline-block;
      padding: 3px 6px;
      font-size: 10px;
      font-weight: 600;
      background: #fef3c7;
      color: #92400e;
      border-radius: 3px;
      text-transform: uppercase;
      letter-spacing: 0.03em;
      margin-right: 2px;
    }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #9ca3af;
      text-align: center;
      background: #f9fafb;
      border-top: 1px solid #f3f4f6;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="year">{{.FiscalYear}}</div>
      <div class="subtitle">Youth justice spending summary</div>
    </div>

    <div class="section">
      <div class="section-title">Spending Split</div>
      <div class="split-grid">
        <div class="split-row">
          <div class="split-label">Detention</div>
          <div class="split-value">{{.DetentionTotal}}<span class="pct">{{.DetentionPct}}</span></div>
        </div>
        <div class="split-row">
          <div class="split-label">Community</div>
          <div class="split-value">{{.CommunityTotal}}<span class="pct">{{.CommunityPct}}</span></div>
        </div>
        <div class="split-row">
          <div class="split-label">Total</div>
          <div class="split-value">{{.Total}} across {{.AllocationCount}} allocations</div>
        </div>
      </div>
    </div>

    {{if .Statistics}}
    <div class="section">
      <div class="section-title">Recent Statistics</div>
      <ul class="stat-list">
        {{range .Statistics}}
        <li>
          <span class="stat-type">{{.Type}}</span>
          <strong>{{.Value}}</strong> {{.Context}}
        </li>
        {{end}}
      </ul>
    </div>
    {{end}}

    <div class="footer">
      Generated {{.GeneratedAt}} by spendscan
    </div>
  </div>
</body>
</html>`
