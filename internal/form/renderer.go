// internal/form/renderer.go
//
// Card form – HTML renderer.
//
// Context
//   Render turns a Definition and a View into plain, class-hooked markup.
//   The input is disabled while a submit is in flight, the submit button is
//   disabled while the gate is closed, and the error text is shown only
//   once the field is touched.  A hidden form renders nothing but the
//   caller-owned "new card" link.
//
//   Existing card titles come from the board seed as well as from the form,
//   so they pass through a bluemonday strict policy instead of the template
//   escaper.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// RenderOptions bundles per-render data that is not part of the View.
type RenderOptions struct {
	Action     string   // POST target for submit
	ValidateAt string   // POST target for per-field validation
	ShowURL    string   // GET target of the "new card" toggle
	CSRFToken  string   // from Tokens.Generate
	TableTitle string   // heading above the form
	Cards      []string // titles already in the table
}

var (
	strict = bluemonday.StrictPolicy()

	formTpl = template.Must(template.New("cardform").Parse(`<section class="card-table">
<h2>{{.Table}}</h2>
<ul class="cards">{{range .Cards}}
<li class="card">{{.}}</li>{{end}}
</ul>
{{- if .View.Visible}}
<form class="card-form" method="post" action="{{.Opts.Action}}" data-validate="{{.Opts.ValidateAt}}">
<input type="hidden" name="csrf_token" value="{{.Opts.CSRFToken}}">
<div class="form-field{{if .View.ShowError}} is-invalid{{else if and .View.Touched .View.Valid}} is-valid{{end}}">
<label for="fld-{{.Def.Field.Name}}">{{.Def.Field.Label}}</label>
<input id="fld-{{.Def.Field.Name}}" name="{{.Def.Field.Name}}" type="text" required placeholder="{{.Def.Field.Placeholder}}" value="{{.View.Value}}"{{if .View.Submitting}} disabled{{end}}>
{{- if .View.ShowError}}
<p class="form-error">{{.View.Error}}</p>
{{- end}}
</div>
<button type="submit"{{if not .View.CanSubmit}} disabled{{end}}>{{.Def.Submit}}</button>
</form>
{{- else}}
<a class="card-form-toggle" href="{{.Opts.ShowURL}}">{{.Def.Title}}</a>
{{- end}}
</section>`))
)

// Render returns the markup for one form.
func Render(def *Definition, v View, opts RenderOptions) (template.HTML, error) {
	if def == nil {
		def = DefaultDefinition()
	}

	// Strict output is already escaped text, so it is marked safe to avoid
	// double escaping.
	cards := make([]template.HTML, len(opts.Cards))
	for i, c := range opts.Cards {
		cards[i] = template.HTML(strict.Sanitize(c))
	}

	data := map[string]any{
		"Def":   def,
		"View":  v,
		"Opts":  opts,
		"Table": template.HTML(strict.Sanitize(opts.TableTitle)),
		"Cards": cards,
	}

	var buf bytes.Buffer
	if err := formTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render card form: %w", err)
	}
	return template.HTML(buf.String()), nil
}
