package view

const layoutTemplate = `
{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>{{.Title}} &lsaquo; Admin</title>
	<style>
		body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; display: flex; background: #f0f0f1; color: #1d2327; }
		nav.admin-menu { width: 200px; min-height: 100vh; background: #1d2327; padding-top: 10px; }
		nav.admin-menu a { display: block; color: #f0f0f1; padding: 8px 14px; text-decoration: none; }
		nav.admin-menu a:hover { background: #2c3338; }
		nav.admin-menu .submenu a { padding-left: 28px; font-size: 0.9em; }
		main.wrap { flex: 1; padding: 10px 20px; }
		.notice { background: #fff; border-left: 4px solid #72aee6; box-shadow: 0 1px 1px rgba(0,0,0,.04); margin: 5px 0 15px; padding: 1px 12px; }
		.notice-warning { border-left-color: #dba617; }
		.notice-info { border-left-color: #72aee6; }
		.card { background: white; border: 1px solid #ccd0d4; border-left: 4px solid #0073aa; padding: 20px; margin: 20px 0; box-shadow: 0 1px 1px rgba(0,0,0,.04); }
		.card h2 { margin-top: 0; }
		.card h3 { margin-top: 20px; margin-bottom: 10px; }
		.card ul { margin-left: 20px; }
		code { background: #f5f5f5; padding: 2px 6px; border-radius: 3px; }
		table.widefat { border-collapse: collapse; background: #fff; }
		table.widefat td, table.widefat th { border: 1px solid #c3c4c7; padding: 8px 10px; text-align: left; }
	</style>
</head>
<body>
	<nav class="admin-menu">
		{{- range .Menu}}
		{{- if eq .Parent ""}}
		<a href="{{.Path}}">{{.MenuTitle}}</a>
		{{- end}}
		{{- end}}
		<div class="submenu">
			<span style="color:#a7aaad;padding:8px 14px;display:block;">Tools</span>
			{{- range .Menu}}
			{{- if eq .Parent "tools"}}
			<a href="{{.Path}}">{{.MenuTitle}}</a>
			{{- end}}
			{{- end}}
		</div>
		{{- if .User}}
		<a href="/admin/logout">Log out ({{.User.LoginID}})</a>
		{{- end}}
	</nav>
	<main class="wrap">
		{{noticeMarker .User}}
{{end}}

{{define "footer"}}
	</main>
</body>
</html>
{{end}}
`
