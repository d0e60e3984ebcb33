package view

const infoPageTemplate = `
{{define "performance-checkup"}}{{template "header" .}}
		<h1>Performance Checkup</h1>

		<div class="card">
			<h2>What This Page Does</h2>
			<p>
				Performance Checkup is a simple diagnostic tool designed to help you spot common performance red flags
				in admin pages. It's <strong>not</strong> a full profiling tool or performance suite.
			</p>
			<p>It checks three things on admin page loads:</p>
			<ul>
				<li><strong>Database query count</strong> - How many queries were made to load the page</li>
				<li><strong>Slow queries</strong> - Individual queries that took longer than 100ms (only when verbose query logging is enabled)</li>
				<li><strong>Memory usage</strong> - How much memory the server process has needed so far</li>
			</ul>
		</div>

		<div class="card">
			<h2>Understanding Query Counts</h2>
			<p>
				<strong>What's normal?</strong> A typical admin page might make 20-50 queries. Simple pages might do fewer.
				Complex pages that load lots of related records might legitimately make more.
			</p>
			<p>
				<strong>When to worry:</strong> If you're seeing 200+ queries on simple pages, it usually means some code
				is making inefficient database calls - often running queries inside loops instead of batching them.
			</p>
			<p>
				<strong>When it's fine:</strong> Some complex admin pages just need lots of data. A high query count isn't
				automatically bad. It's a starting point for investigation, not a verdict.
			</p>
		</div>

		<div class="card">
			<h2>Understanding Slow Queries</h2>
			<p><strong>What we're checking:</strong> Individual queries that take more than 100ms (0.1 seconds).</p>
			<p><strong>Why it matters:</strong> One slow query can make an entire page feel sluggish. Slow queries are often caused by:</p>
			<ul>
				<li>Missing database indexes</li>
				<li>Large tables without proper optimization</li>
				<li>Complex JOIN operations on big datasets</li>
				<li>Poorly written plugin or theme code</li>
			</ul>
			<p>
				<strong>Important:</strong> This only works if the server runs with <code>CHECKUP_VERBOSE_QUERIES=true</code>.
				It is off by default because recording every query adds overhead you don't want in production.
			</p>
		</div>

		<div class="card">
			<h2>Understanding Memory Usage</h2>
			<p>
				<strong>What's normal?</strong> The admin server itself typically uses 20-40 MB. Busy instances with large
				caches or many open connections commonly use more.
			</p>
			<p>
				<strong>When to worry:</strong> If the process is being killed for running out of memory, this reading helps
				you identify which admin pages push it up.
			</p>
			<p>
				<strong>Context matters:</strong> High memory usage isn't inherently bad - the server needs memory to work.
				It's only a problem if you're hitting your container or host memory limit.
			</p>
		</div>

		<div class="card">
			<h2>Current Status</h2>
			<p>Here's what we're seeing on this page right now:</p>
			<table class="widefat" style="max-width: 600px;">
				<tbody>
					<tr>
						<td><strong>Database Queries</strong></td>
						<td>{{.Data.Status.QueryCount}} queries</td>
					</tr>
					<tr>
						<td><strong>Memory Usage</strong></td>
						<td>{{printf "%.1f" .Data.Status.PeakMemoryMB}} MB</td>
					</tr>
					<tr>
						<td><strong>Verbose Query Logging</strong></td>
						<td>
							{{- if .Data.Status.VerboseQueries}}
							<span style="color: #46b450;">Enabled</span>
							{{- else}}
							<span style="color: #999;">Disabled</span>
							{{- end}}
						</td>
					</tr>
				</tbody>
			</table>
			<p style="color: #666; font-size: 0.9em;">
				This is just for this specific page (Tools &rarr; Performance Checkup). The notices you see elsewhere
				reflect the metrics for those pages.
			</p>
			{{- if .Data.RestoreURL}}
			<p class="performance-checkup-restore">
				Performance notices are dismissed for you right now.
				<a href="{{.Data.RestoreURL}}">Show notices again</a>
			</p>
			{{- end}}
		</div>

		<div class="card">
			<h2>What This Page Doesn't Do</h2>
			<ul>
				<li>It doesn't monitor the public site - admin only</li>
				<li>It doesn't collect data over time or create logs</li>
				<li>It doesn't automatically fix anything</li>
				<li>It doesn't add overhead to your site (it only runs after admin pages are generated)</li>
				<li>It doesn't work like a full profiler or APM agent</li>
			</ul>
			<p>
				<strong>Think of it as:</strong> A simple set of blood pressure checks for your admin. It won't diagnose
				every problem, but it might catch obvious issues before they become emergencies.
			</p>
		</div>

		<div class="card">
			<h2>When to Ignore the Warnings</h2>
			<p>Not every warning requires action. You can safely ignore notices if:</p>
			<ul>
				<li>The admin feels fast enough for your needs</li>
				<li>You're on a page that legitimately needs to load lots of data</li>
				<li>You're on a development instance where performance isn't critical</li>
				<li>You've already investigated and know the cause is acceptable</li>
			</ul>
			<p>
				The goal isn't zero queries or zero memory usage. The goal is awareness.
				If something changes dramatically, you'll notice.
			</p>
		</div>

		<div class="card">
			<h2>Troubleshooting Common Issues</h2>

			<h3>High Query Counts</h3>
			<p><strong>Common culprits:</strong></p>
			<ul>
				<li>Handlers that load related records one row at a time</li>
				<li>Statistics widgets recomputing data on every admin page</li>
				<li>Menus or sidebars that query once per item</li>
			</ul>
			<p><strong>How to investigate:</strong> Enable verbose query logging temporarily - the notice then lists the slowest statements.</p>

			<h3>Slow Queries</h3>
			<p><strong>Common causes:</strong></p>
			<ul>
				<li>Large tables filtered on columns without indexes</li>
				<li>Joins across tables with lots of relationships</li>
				<li>Search queries on large datasets</li>
			</ul>
			<p><strong>How to investigate:</strong> Check the query details shown in the notice. Run <code>EXPLAIN ANALYZE</code> on them to see the plan.</p>

			<h3>High Memory</h3>
			<p><strong>Common causes:</strong></p>
			<ul>
				<li>Loading large result sets into memory at once</li>
				<li>Unbounded in-process caches</li>
				<li>Leaked goroutines holding buffers</li>
			</ul>
			<p><strong>How to investigate:</strong> Note which admin pages trigger high memory and take a heap profile while loading them.</p>
		</div>

		<div class="card">
			<h2>Verbose Query Logging Explained</h2>
			<p>To enable slow query detection, start the server with this environment variable (or add it to <code>.env</code>):</p>
			<pre style="background: #f5f5f5; padding: 10px; border-left: 3px solid #0073aa;">CHECKUP_VERBOSE_QUERIES=true</pre>
			<p>
				<strong>Important:</strong> Only do this on development or staging instances. Verbose logging adds overhead
				because the server has to keep the text and timing of every query. Don't enable this in production unless
				you're actively debugging and plan to disable it soon.
			</p>
			<p>
				<strong>Current status:</strong>
				{{- if .Data.Status.VerboseQueries}}
				<span style="color: #46b450;">&#10003; Verbose query logging is enabled</span> - Slow query detection is active.
				{{- else}}
				<span style="color: #999;">Verbose query logging is not enabled</span> - Slow query detection is unavailable.
				{{- end}}
			</p>
		</div>
{{template "footer" .}}{{end}}
`
