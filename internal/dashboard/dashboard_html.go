package dashboard

import (
	"html/template"
	"strings"
)

const loginPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Time Tracker - Sign in</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       background: #f5f5f5; display: flex; align-items: center; justify-content: center; height: 100vh; }
.card { background: white; padding: 40px 50px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); text-align: center; }
a.btn { display: inline-block; margin-top: 20px; padding: 12px 24px; background: #4a7c23; color: white;
        text-decoration: none; border-radius: 5px; }
a.btn:hover { background: #2d5016; }
</style>
</head>
<body>
<div class="card">
  <h1>Time Tracker</h1>
  <p>Sign in with your company Google account.</p>
  <a class="btn" href="/dashboard/auth/google">Sign in with Google</a>
</div>
</body>
</html>`

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Time Tracker Dashboard</title>
<style>
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
       background: #f5f5f5; padding: 20px; color: #333; }
.container { max-width: 1000px; margin: 0 auto; }
h1 { background: linear-gradient(135deg, #2d5016 0%, #4a7c23 100%); color: white;
     padding: 20px 30px; border-radius: 10px 10px 0 0; display: flex; justify-content: space-between; }
h1 .who { font-size: 14px; font-weight: 400; align-self: center; }
h1 .who a { color: #d8e8c8; }
.card { background: white; border-radius: 0 0 10px 10px; padding: 20px 30px;
        box-shadow: 0 2px 10px rgba(0,0,0,0.1); margin-bottom: 20px; }
.filters { display: flex; gap: 15px; flex-wrap: wrap; margin-bottom: 20px; align-items: center; }
select, button, input { padding: 10px 15px; border: 1px solid #ddd; border-radius: 5px; font-size: 14px; }
button { background: #4a7c23; color: white; border: none; cursor: pointer; }
button:hover { background: #2d5016; }
.btn-download { background: #2196F3; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { padding: 12px 15px; text-align: left; border-bottom: 1px solid #eee; }
th { background: #f9f9f9; font-weight: 600; }
.total-row { background: #e8f5e9 !important; font-weight: 600; }
.summary-cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
                 gap: 15px; margin-bottom: 20px; }
.summary-card { background: #f9f9f9; padding: 15px; border-radius: 8px; text-align: center; }
.summary-card .number { font-size: 24px; font-weight: 600; color: #4a7c23; }
.summary-card .label { font-size: 12px; color: #666; margin-top: 5px; }
.loading { text-align: center; padding: 40px; color: #666; }
</style>
</head>
<body>
<div class="container">
  <h1>Time Tracker Dashboard
    <span class="who">{{.Name}} &middot; <a href="/dashboard/logout">Sign out</a></span>
  </h1>
  <div class="card">
    <div class="filters">
      {{if .IsAdmin}}
      <div><label>Employee:</label>
        <select id="employeeFilter"><option value="">All Employees</option></select></div>
      {{end}}
      <div><label>From:</label> <input type="date" id="startDate"></div>
      <div><label>To:</label> <input type="date" id="endDate"></div>
      <div><label>Quick:</label>
        <select id="periodFilter" onchange="applyQuickPeriod()">
          <option value="">Custom</option>
          <option value="1">Past 1 Week</option>
          <option value="2" selected>Past 2 Weeks</option>
          <option value="3">Past 3 Weeks</option>
          <option value="4">Past 4 Weeks</option>
        </select></div>
      <button onclick="loadData()">Apply Filters</button>
      <button class="btn-download" onclick="downloadExport('csv')">CSV</button>
      <button class="btn-download" onclick="downloadExport('xlsx')">Excel</button>
      {{if .IsAdmin}}<button onclick="window.location='/dashboard/audit'">Audit Log</button>{{end}}
    </div>
    <div class="summary-cards">
      <div class="summary-card"><div class="number" id="totalEmployees">-</div><div class="label">Employees</div></div>
      <div class="summary-card"><div class="number" id="totalHours">-</div><div class="label">Total Hours</div></div>
      <div class="summary-card"><div class="number" id="totalSessions">-</div><div class="label">Sessions</div></div>
    </div>
    <div id="tableContainer"><div class="loading">Loading...</div></div>
  </div>
</div>
<script>
function el(id) { return document.getElementById(id); }

function initDates() {
  const today = new Date();
  const twoWeeksAgo = new Date(today);
  twoWeeksAgo.setDate(today.getDate() - 14);
  el('endDate').value = today.toISOString().split('T')[0];
  el('startDate').value = twoWeeksAgo.toISOString().split('T')[0];
}

function applyQuickPeriod() {
  const weeks = el('periodFilter').value;
  if (!weeks) return;
  const today = new Date();
  const start = new Date(today);
  start.setDate(today.getDate() - weeks * 7);
  el('endDate').value = today.toISOString().split('T')[0];
  el('startDate').value = start.toISOString().split('T')[0];
}

function selectedEmployee() {
  const sel = el('employeeFilter');
  return sel ? sel.value : '';
}

async function loadData() {
  const q = new URLSearchParams({
    start: el('startDate').value,
    end: el('endDate').value,
    employee: selectedEmployee(),
  });
  el('tableContainer').innerHTML = '<div class="loading">Loading...</div>';
  try {
    const resp = await fetch('/dashboard/data?' + q);
    const data = await resp.json();
    renderTable(data);
    updateSummary(data);
    updateEmployeeFilter(data.all_employees);
  } catch (e) {
    el('tableContainer').innerHTML = '<div class="loading">Error loading data</div>';
  }
}

function updateSummary(data) {
  el('totalEmployees').textContent = data.summary.length;
  el('totalHours').textContent = data.total_hours.toFixed(1);
  el('totalSessions').textContent = data.total_sessions;
}

function updateEmployeeFilter(employees) {
  const sel = el('employeeFilter');
  if (!sel) return;
  const current = sel.value;
  sel.innerHTML = '<option value="">All Employees</option>';
  employees.forEach(function (emp) {
    const opt = document.createElement('option');
    opt.value = emp;
    opt.textContent = emp;
    if (emp === current) opt.selected = true;
    sel.appendChild(opt);
  });
}

function renderTable(data) {
  if (data.summary.length === 0) {
    el('tableContainer').innerHTML = '<div class="loading">No data found for this period</div>';
    return;
  }
  let html = '<table><thead><tr><th>Employee</th><th>Hours</th><th>Days Worked</th>' +
             '<th>Sessions</th><th>Avg/Day</th></tr></thead><tbody>';
  data.summary.forEach(function (row) {
    const avg = row.days_worked > 0 ? (row.total_hours / row.days_worked).toFixed(1) : '0';
    html += '<tr><td>' + row.employee_name + '</td><td>' + row.total_hours.toFixed(1) +
            ' hrs</td><td>' + row.days_worked + '</td><td>' + row.sessions +
            '</td><td>' + avg + ' hrs</td></tr>';
  });
  html += '<tr class="total-row"><td>Total</td><td>' + data.total_hours.toFixed(1) +
          ' hrs</td><td>-</td><td>' + data.total_sessions + '</td><td>-</td></tr></tbody></table>';
  el('tableContainer').innerHTML = html;
}

function downloadExport(format) {
  const q = new URLSearchParams({
    start: el('startDate').value,
    end: el('endDate').value,
    employee: selectedEmployee(),
    format: format,
  });
  window.location.href = '/dashboard/download?' + q;
}

initDates();
loadData();
</script>
</body>
</html>`))

func renderPage(sess Session) string {
	var b strings.Builder
	name := sess.Name
	if name == "" {
		name = sess.Email
	}
	_ = pageTemplate.Execute(&b, struct {
		Name    string
		IsAdmin bool
	}{Name: name, IsAdmin: sess.IsAdmin})
	return b.String()
}
