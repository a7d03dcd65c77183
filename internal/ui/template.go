package ui

import (
	"context"
	"html/template"
	"io"

	"github.com/asnowfix/wololo/internal/providers"
	"github.com/asnowfix/wololo/pkg/mac"
)

// IndexData holds the data for rendering the index page
type IndexData struct {
	Machines []providers.Machine
}

// WokeData holds the data for rendering the confirmation page
type WokeData struct {
	Machine string
	Mac     mac.Address
}

const head = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>WoLolo</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bulma@0.9.4/css/bulma.min.css"/>
`

var indexTmpl = template.Must(template.New("index").Parse(head + `</head>
<body>
  <section class="section">
    <div class="container" style="max-width: 600px">
      <h1 class="title">WoLolo</h1>
      {{if .Machines}}
      <table class="table is-fullwidth is-striped">
        <thead>
          <tr><th>Machine</th><th>MAC Address</th><th></th></tr>
        </thead>
        <tbody>
          {{range .Machines}}
          <tr>
            <td>{{.Name}}</td>
            <td><code>{{.Mac}}</code></td>
            <td>
              <form method="post" action="/wake">
                <input type="hidden" name="machine" value="{{.Name}}"/>
                <input class="button is-small is-success" type="submit" value="Wake"/>
              </form>
            </td>
          </tr>
          {{end}}
        </tbody>
      </table>
      {{else}}
      <div class="notification is-light has-text-grey">No machines known.</div>
      {{end}}
      <form method="post" action="/wake" class="field has-addons">
        <div class="control is-expanded">
          <input class="input" type="text" name="mac_address" placeholder="aa:bb:cc:dd:ee:ff" pattern="([0-9a-f]{2}:){5}[0-9a-f]{2}"/>
        </div>
        <div class="control">
          <input class="button is-info" type="submit" value="Wake"/>
        </div>
      </form>
    </div>
  </section>
</body>
</html>
`))

var wokeTmpl = template.Must(template.New("woke").Parse(head + `  <meta http-equiv="refresh" content="2; url=/"/>
</head>
<body>
  <section class="section">
    <div class="container" style="max-width: 600px">
      <h1 class="title">WoLolo</h1>
      <p>Sent magic packet to {{if .Machine}}{{.Machine}} ({{.Mac}}){{else}}{{.Mac}}{{end}}</p>
    </div>
  </section>
</body>
</html>
`))

func RenderIndex(ctx context.Context, machines Machines, w io.Writer) error {
	list, err := machines.Machines(ctx)
	if err != nil {
		return err
	}
	return indexTmpl.Execute(w, IndexData{Machines: list})
}

func RenderWoke(w io.Writer, data WokeData) error {
	return wokeTmpl.Execute(w, data)
}
