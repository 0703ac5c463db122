package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/config"
	"github.com/jaminalder/codex-gomoku/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs(labels config.Labels) template.FuncMap {
	return template.FuncMap{
		"cellClass": func(c domain.Cell) string {
			switch c {
			case domain.A:
				return strings.ToLower(labels.A)
			case domain.B:
				return strings.ToLower(labels.B)
			default:
				return "empty"
			}
		},
	}
}

func sideLabel(c domain.Cell, labels config.Labels) string {
	switch c {
	case domain.A:
		return labels.A
	case domain.B:
		return labels.B
	default:
		return ""
	}
}

func loadTemplates(labels config.Labels) *templates {
	base := template.Must(template.New("base").Funcs(funcs(labels)).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Gomoku</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form{margin:1px}.row button{width:30px;height:30px;background:#E6E6FA;border:0}
.cell{display:inline-block;width:22px;height:22px;border-radius:50%}
</style>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{.Board}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs(labels)).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const indexTemplate = `<h1>Gomoku</h1>
<form action="/game" method="post">
  <label>Select Mode:
    <select name="mode">
      <option value="{{.HumanVsAI}}">human vs AI</option>
      <option value="{{.AIVsAI}}">AI vs AI</option>
      <option value="{{.HumanVsHuman}}">human vs human</option>
    </select>
  </label>
  <label>Play as:
    <select name="side">
      <option value="a">{{.LabelA}}</option>
      <option value="b">{{.LabelB}}</option>
    </select>
  </label>
  <button>Start Game</button>
</form>`

const boardTemplate = `
<div id="board">
  <p class="status">{{.Status}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{range $r, $row := .Rows}}
  <div class="row">
    {{range $c, $cell := $row}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit" title="{{$r}},{{$c}}">{{if $cell}}<span class="cell {{cellClass $cell}}"></span>{{end}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
</div>
`

// boardData is the view model of the board fragment.
type boardData struct {
	ID     string
	Rows   [][]domain.Cell
	Status string
	Error  string
}

func newBoardData(gs app.GameState, labels config.Labels, errMsg string) boardData {
	return boardData{ID: gs.ID, Rows: gs.Game.Board.Rows(), Status: statusText(gs, labels), Error: errMsg}
}

func statusText(gs app.GameState, labels config.Labels) string {
	g := gs.Game
	switch {
	case g.Over && g.Winner == domain.Empty:
		return "Game over: draw"
	case g.Over:
		return sideLabel(g.Winner, labels) + " wins!"
	case gs.Thinking:
		return sideLabel(g.Turn, labels) + " (AI) is thinking"
	default:
		return sideLabel(g.Turn, labels) + " to move"
	}
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := app.NewPlayerID()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
	return v
}
