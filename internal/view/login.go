package view

const loginTemplate = `
{{define "login"}}<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Log In &lsaquo; Admin</title>
	<style>
		body { font-family: -apple-system, "Segoe UI", sans-serif; background: #f0f0f1; }
		form { background: #fff; width: 320px; margin: 100px auto; padding: 24px; box-shadow: 0 1px 3px rgba(0,0,0,.04); }
		label, input { display: block; width: 100%; margin-bottom: 12px; }
		.error { border-left: 4px solid #d63638; padding: 6px 10px; background: #fff; width: 320px; margin: 0 auto; }
	</style>
</head>
<body>
	<form method="post" action="/admin/login">
		<label for="id">Username</label>
		<input id="id" name="id" type="text" value="{{.Data.LoginID}}" autocomplete="username">
		<label for="password">Password</label>
		<input id="password" name="password" type="password" autocomplete="current-password">
		<input type="hidden" name="redirect_to" value="{{.Data.Redirect}}">
		<button type="submit">Log In</button>
	</form>
	{{- if .Data.Error}}
	<p class="error">{{.Data.Error}}</p>
	{{- end}}
</body>
</html>
{{end}}
`

const forbiddenTemplate = `
{{define "forbidden"}}<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Error</title>
</head>
<body>
	<div class="die-message">{{.Data}}</div>
</body>
</html>
{{end}}
`
