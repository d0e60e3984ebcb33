package view

const dashboardTemplate = `
{{define "dashboard"}}{{template "header" .}}
		<h1>Dashboard</h1>
		<div class="card">
			<h2>Users</h2>
			<table class="widefat" style="max-width: 600px;">
				<thead>
					<tr><th>ID</th><th>Login</th><th>Role</th><th>Registered</th></tr>
				</thead>
				<tbody>
				{{- range .Data.Users}}
					<tr>
						<td>{{.ID}}</td>
						<td>{{.LoginID}}</td>
						<td>{{.Role}}</td>
						<td>{{.CreatedAt.Format "2006-01-02"}}</td>
					</tr>
				{{- else}}
					<tr><td colspan="4">No users yet.</td></tr>
				{{- end}}
				</tbody>
			</table>
		</div>
{{template "footer" .}}{{end}}
`
