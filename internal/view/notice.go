package view

const noticeTemplate = `{{define "notice"}}<div class="notice notice-{{.Severity}} is-dismissible performance-checkup-notice">
	<p><strong>Performance Checkup</strong></p>
	{{- range .Messages}}
	<p>{{.}}</p>
	{{- end}}
	{{- if .SlowQuery}}
	<ol class="performance-checkup-slow-queries">
		{{- range .SlowQuery}}
		<li><code>{{printf "%.3f" .Time}}s</code> {{.SQL}}</li>
		{{- end}}
	</ol>
	{{- end}}
	<p>
		<a href="{{.InfoURL}}">Learn more about these readings</a>
		|
		<a href="{{.DismissURL}}">Dismiss for 24 hours</a>
	</p>
</div>{{end}}`
