package diag

import (
	"bytes"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

const rawDiagPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>xidi diagnostics</title>
</head>
<body>
<h1>xidi diagnostics</h1>
<pre id="state">connecting...</pre>
<pre id="events"></pre>
<script>
var state = document.getElementById("state");
var events = document.getElementById("events");
var ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = function (ev) {
  state.textContent = ev.data;
};
var es = new WebSocket("ws://" + location.host + "/events");
es.onmessage = function (ev) {
  events.textContent = ev.data + "\n" + events.textContent;
};
</script>
</body>
</html>
`

var (
	minifyOnce   sync.Once
	minifiedPage []byte
)

// DiagPage returns the diagnostics HTML page, minified on first use via
// tdewolff/minify/v2 and cached thereafter.
func DiagPage() []byte {
	minifyOnce.Do(func() {
		m := minify.New()
		m.AddFunc("text/html", html.Minify)

		var out bytes.Buffer
		if err := m.Minify("text/html", &out, bytes.NewBufferString(rawDiagPage)); err != nil {
			minifiedPage = []byte(rawDiagPage)
			return
		}
		minifiedPage = out.Bytes()
	})
	return minifiedPage
}
