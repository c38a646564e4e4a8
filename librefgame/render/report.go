package render

import (
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/refgame"
)

// Report is an ordered sequence of sections, each holding interpretive prose
// and condition figures, rendered as one static HTML document.
type Report struct {
	Title       string
	HeaderImage string // optional relative path to a static image asset

	sections []*Section
	figures  []*Figure
	figIndex *redblacktree.Tree // canonic condition key -> *Figure
}

// Section is one titled run of prose and figure blocks.
type Section struct {
	Title  string
	blocks []block
}

type block struct {
	prose string
	fig   *Figure // nil for prose blocks
}

// Figure is one rendered condition diagram.  A condition shown more than once
// keeps a single figure number so later mentions cross-reference the first.
type Figure struct {
	Num      int
	Notation string
	Caption  string
	SVG      template.HTML
}

func NewReport(title string) *Report {
	return &Report{
		Title:    title,
		figIndex: redblacktree.NewWithStringComparator(),
	}
}

func (r *Report) AddSection(title string) *Section {
	s := &Section{Title: title}
	r.sections = append(r.sections, s)
	return s
}

func (s *Section) AddProse(text string) {
	s.blocks = append(s.blocks, block{prose: text})
}

// AddFigure renders the given condition into the section, reusing the figure
// number of a previously rendered identical condition.
func (r *Report) AddFigure(s *Section, X refgame.ConditionState, opts Opts) (*Figure, error) {
	var keyBuf [refgame.MaxKeyLen]byte
	key, err := X.MarshalOut(keyBuf[:0], refgame.AsKey)
	if err != nil {
		return nil, err
	}

	if found, ok := r.figIndex.Get(string(key)); ok {
		fig := found.(*Figure)
		s.blocks = append(s.blocks, block{fig: fig})
		return fig, nil
	}

	net, err := networkOf(X)
	if err != nil {
		return nil, err
	}
	svg, err := SVG(net, opts)
	if err != nil {
		return nil, err
	}

	// key aliases keyBuf, so the notation needs its own scratch space
	var notationBuf [refgame.MaxKeyLen]byte
	notation, _ := X.MarshalOut(notationBuf[:0], refgame.AsNotation)
	caption := opts.Caption
	if caption == "" {
		caption = string(notation)
	}

	fig := &Figure{
		Num:      len(r.figures) + 1,
		Notation: string(notation),
		Caption:  caption,
		SVG:      template.HTML(svg),
	}
	r.figures = append(r.figures, fig)
	r.figIndex.Put(string(key), fig)
	s.blocks = append(s.blocks, block{fig: fig})
	return fig, nil
}

// AddGallery pulls every condition from the stream into the section as
// figures, reclaiming each condition, and returns the count pulled.
func (r *Report) AddGallery(s *Section, stream *refgame.ConditionStream, opts Opts) (int, error) {
	count := 0
	for X := range stream.Outlet {
		_, err := r.AddFigure(s, X, opts)
		X.Reclaim()
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// NumFigures returns the number of distinct figures in this report.
func (r *Report) NumFigures() int {
	return len(r.figures)
}

// networkOf builds the node/edge table for any ConditionState.
func networkOf(X refgame.ConditionState) (*librefgame.Network, error) {
	players := X.Players()
	knowledge := make([]refgame.KnowledgeLevel, players)
	for i := range knowledge {
		knowledge[i] = X.Knowledge(i)
	}
	signs := make([]refgame.IncentiveSign, X.Pairs())
	for i := range signs {
		signs[i] = X.Incentive(i)
	}
	return librefgame.MakeNetwork(players, knowledge, signs)
}

// SaveHTML writes the rendered report to the given path, creating parent
// directories as needed.
func (r *Report) SaveHTML(pathname string) error {
	if err := os.MkdirAll(filepath.Dir(pathname), 0700); err != nil {
		return err
	}
	file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	werr := r.WriteHTML(file)
	cerr := file.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (r *Report) WriteHTML(out io.Writer) error {
	type blockView struct {
		Prose string
		Fig   *Figure
	}
	type sectionView struct {
		Title  string
		Blocks []blockView
	}
	type reportView struct {
		Title       string
		HeaderImage string
		Sections    []sectionView
	}

	view := reportView{
		Title:       r.Title,
		HeaderImage: r.HeaderImage,
	}
	for _, s := range r.sections {
		sv := sectionView{Title: s.Title}
		for _, b := range s.blocks {
			sv.Blocks = append(sv.Blocks, blockView{Prose: b.prose, Fig: b.fig})
		}
		view.Sections = append(view.Sections, sv)
	}

	if err := sReportTmpl.Execute(out, view); err != nil {
		return errors.Wrap(err, "report rendering failed")
	}
	return nil
}

var sReportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 60em; margin: 2em auto; font-family: Georgia, serif; line-height: 1.5; }
h1, h2 { font-family: sans-serif; }
figure { display: inline-block; margin: .5em; text-align: center; }
figcaption { font-size: .8em; color: #495057; font-family: sans-serif; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .HeaderImage}}<img src="{{.HeaderImage}}" alt="" style="max-width: 100%">
{{end}}{{range .Sections}}<section>
<h2>{{.Title}}</h2>
{{range .Blocks}}{{if .Fig}}<figure>
{{.Fig.SVG}}<figcaption>Figure {{.Fig.Num}}. {{.Fig.Caption}}</figcaption>
</figure>
{{else}}<p>{{.Prose}}</p>
{{end}}{{end}}</section>
{{end}}</body>
</html>
`))
