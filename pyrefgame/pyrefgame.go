package pyrefgame

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-python/gpython/py"

	"github.com/refgame-systems/gorefnet/librefgame"
	"github.com/refgame-systems/gorefnet/librefgame/atlas"
	"github.com/refgame-systems/gorefnet/librefgame/render"
	"github.com/refgame-systems/gorefnet/refgame"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyConditionType       = py.NewType("Condition", "a reference-game condition: knowledge per player, incentive sign per pair")
	pyConditionStreamType = py.NewType("ConditionStream", "refgame.ConditionStream")
	pyAtlasType           = py.NewType("Atlas", "refgame.Catalog")
	pyWorkspaceType       = py.NewType("Workspace", "collects active session resources and atlases")
	pyReportType          = py.NewType("Report", "render.Report under construction")
)

/////////////////////////////////
// Condition

type pyCondition struct {
	*librefgame.Condition
}

func (X pyCondition) Type() *py.Type {
	return pyConditionType
}

func (X pyCondition) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteAsString(&writer, refgame.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (X pyCondition) M__repr__() (py.Object, error) {
	return X.M__str__()
}

func getConditionFromObj(obj py.Object) (pyCondition, error) {
	if X, ok := obj.(pyCondition); ok {
		return X, nil
	}
	if obj.Type().Name == "Condition" {
		attr, err := py.GetAttrString(obj, "_cond")
		if err == nil {
			if X, ok := attr.(pyCondition); ok {
				return X, nil
			}
		}
	}
	return pyCondition{}, py.ExceptionNewf(py.TypeError, "expected Condition object (got %v)", obj.Type().Name)
}

// Arg 1 (str, optional): condition expression, e.g. "fpn:+-0"
func py_NewCondition(module py.Object, args py.Tuple) (py.Object, error) {
	X := librefgame.NewCondition(nil)
	if len(args) > 0 {
		var expr string
		if err := py.LoadTuple(args, []interface{}{&expr}); err != nil {
			return nil, err
		}
		if err := X.InitFromString(expr); err != nil {
			X.Reclaim()
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
	}
	return py.Object(pyCondition{X}), nil
}

func py_Condition_NumPlayers(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyCondition)
	return py.Object(py.Int(X.Players())), nil
}

func py_Condition_NumPairs(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyCondition)
	return py.Object(py.Int(X.Pairs())), nil
}

func py_Condition_Knowledge(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyCondition)
	N := X.Players()
	labels := make(py.Tuple, N)
	for i := 0; i < N; i++ {
		labels[i] = py.String(X.Knowledge(i).String())
	}
	return py.Object(labels), nil
}

func py_Condition_Incentives(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyCondition)
	N := X.Pairs()
	signs := make(py.Tuple, N)
	for i := 0; i < N; i++ {
		signs[i] = py.String(X.Incentive(i).String())
	}
	return py.Object(signs), nil
}

func py_Condition_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyCondition)
	next := refgame.StreamCondition(X)
	return wrapConditionStream(next), nil
}

/////////////////////////////////
// ConditionStream

type conditionStream struct {
	*refgame.ConditionStream
}

func (stream conditionStream) Type() *py.Type {
	return pyConditionStreamType
}

func wrapConditionStream(stream *refgame.ConditionStream) py.Object {
	return py.Object(conditionStream{stream})
}

// Arg 1 (int): player count
func py_EnumConditions(module py.Object, args py.Tuple) (py.Object, error) {
	var players py.Object
	err := py.ParseTuple(args, "i", &players)
	if err != nil {
		return nil, err
	}

	stream, err := librefgame.EnumConditions(int(players.(py.Int)))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return wrapConditionStream(stream), nil
}

// Arg 1 (str): condition expression, e.g. "fp:+ ; fpn:+-0"
func py_StreamConditions(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	if err := py.LoadTuple(args, []interface{}{&expr}); err != nil {
		return nil, err
	}
	stream, err := librefgame.StreamFromExpr(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return wrapConditionStream(stream), nil
}

func py_ConditionStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(conditionStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	var (
		n   int
		err error
	)
	if echo.to == nil {
		n, err = echo.stdout.Write(buf)
	} else {
		n, err = echo.to.Write(buf)
	}
	return n, err
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

func py_ConditionStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(conditionStream)
	var pathname string

	opts := refgame.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", gOutCount)
	}

	py.LoadAttr(kwargs, "labels", &opts.Labels)
	py.LoadAttr(kwargs, "notation", &opts.Notation)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapConditionStream(next), nil
}

func py_ConditionStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(conditionStream)
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "expected Atlas object")
	}
	cat, ok := args[0].(pyAtlas)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Atlas object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", errors.New("atlas is in read-only mode"))
	}

	next := stream.AddTo(cat)
	return wrapConditionStream(next), nil
}

func py_ConditionStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(conditionStream)

	// A memory resident set dedupes the stream for the life of the pull
	set := librefgame.NewDropDupes()
	next := stream.AddTo(set)
	return wrapConditionStream(next), nil
}

func py_ConditionStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	sel := refgame.DefaultConditionSelector
	if len(args) > 0 {
		if err := getConditionSelector(args[0], &sel); err != nil {
			return nil, err
		}
	}
	stream := self.(conditionStream)
	next := stream.SelectFromStream(sel)
	return wrapConditionStream(next), nil
}

func py_ConditionStream_PermuteSigns(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(conditionStream)
	next := stream.PermuteIncentiveSigns()
	return wrapConditionStream(next), nil
}

/////////////////////////////////
// Workspace / Atlas

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx refgame.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: refgame.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_AtlasExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): db pathname ("" denotes memory resident)
// Arg 2 (int): flags
func py_Workspace_OpenAtlas(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := refgame.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   (flags & READ_ONLY) != 0,
	}

	cat, err := atlas.OpenAtlas(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	return py.Object(pyAtlas{cat}), nil
}

type pyAtlas struct {
	refgame.Catalog
}

func (cat pyAtlas) Type() *py.Type {
	return pyAtlasType
}

func py_Atlas_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyAtlas)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Atlas_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyAtlas)
	sel := refgame.DefaultConditionSelector
	if len(args) > 0 {
		if err := getConditionSelector(args[0], &sel); err != nil {
			return nil, err
		}
	}

	next := refgame.SelectFromCatalog(cat, sel)
	return wrapConditionStream(next), nil
}

func py_Atlas_NumConditions(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyAtlas)

	players, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}

	numConditions := cat.NumConditions(byte(players))
	return py.Int(numConditions), nil
}

/////////////////////////////////
// Report

type pyReport struct {
	rpt *render.Report
	cur *render.Section
}

func (r *pyReport) Type() *py.Type {
	return pyReportType
}

// Arg 1 (str): report title
func py_NewReport(module py.Object, args py.Tuple) (py.Object, error) {
	var title string
	if err := py.LoadTuple(args, []interface{}{&title}); err != nil {
		return nil, err
	}
	return &pyReport{rpt: render.NewReport(title)}, nil
}

func py_Report_Section(self py.Object, args py.Tuple) (py.Object, error) {
	r := self.(*pyReport)
	var title string
	if err := py.LoadTuple(args, []interface{}{&title}); err != nil {
		return nil, err
	}
	r.cur = r.rpt.AddSection(title)
	return py.None, nil
}

func (r *pyReport) section() (*render.Section, error) {
	if r.cur == nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "no report section open; call Section() first")
	}
	return r.cur, nil
}

func py_Report_Prose(self py.Object, args py.Tuple) (py.Object, error) {
	r := self.(*pyReport)
	s, err := r.section()
	if err != nil {
		return nil, err
	}
	var text string
	if err := py.LoadTuple(args, []interface{}{&text}); err != nil {
		return nil, err
	}
	s.AddProse(text)
	return py.None, nil
}

func py_Report_HeaderImage(self py.Object, args py.Tuple) (py.Object, error) {
	r := self.(*pyReport)
	var pathname string
	if err := py.LoadTuple(args, []interface{}{&pathname}); err != nil {
		return nil, err
	}
	r.rpt.HeaderImage = pathname
	return py.None, nil
}

func renderOptsFromKwargs(kwargs py.StringDict) render.Opts {
	opts := render.DefaultOpts
	var legend bool
	var caption string
	py.LoadAttr(kwargs, "legend", &legend)
	py.LoadAttr(kwargs, "caption", &caption)
	opts.Legend = legend
	opts.Caption = caption
	return opts
}

// Arg 1 (Condition or str): condition to draw
func py_Report_Figure(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	r := self.(*pyReport)
	s, err := r.section()
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "expected Condition object or expression")
	}

	var X pyCondition
	if expr, isStr := args[0].(py.String); isStr {
		Xi := librefgame.NewCondition(nil)
		if err := Xi.InitFromString(string(expr)); err != nil {
			Xi.Reclaim()
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		defer Xi.Reclaim()
		X = pyCondition{Xi}
	} else {
		X, err = getConditionFromObj(args[0])
		if err != nil {
			return nil, err
		}
	}

	fig, err := r.rpt.AddFigure(s, X.Condition, renderOptsFromKwargs(kwargs))
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Int(fig.Num), nil
}

// Arg 1 (ConditionStream): conditions to draw
func py_Report_Gallery(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	r := self.(*pyReport)
	s, err := r.section()
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, py.ExceptionNewf(py.TypeError, "expected ConditionStream object")
	}
	stream, ok := args[0].(conditionStream)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected ConditionStream object (got %v)", args[0].Type().Name)
	}

	count, err := r.rpt.AddGallery(s, stream.ConditionStream, renderOptsFromKwargs(kwargs))
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Int(count), nil
}

// Arg 1 (str): output pathname
func py_Report_SaveHTML(self py.Object, args py.Tuple) (py.Object, error) {
	r := self.(*pyReport)
	var pathname string
	if err := py.LoadTuple(args, []interface{}{&pathname}); err != nil {
		return nil, err
	}
	if err := r.rpt.SaveHTML(pathname); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

/////////////////////////////////
// Selector support

func intAttr(obj py.Object, key string, min, max int64) int64 {
	attr, err := py.GetAttrString(obj, key)
	if err != nil {
		panic(err)
	}
	val, _ := py.GetInt(attr)
	intVal := int64(val)
	if intVal < min {
		intVal = min
	}
	if intVal > max {
		intVal = max
	}
	return intVal
}

func byteAttr(obj py.Object, attr string) byte {
	return byte(intAttr(obj, attr, 0, 255))
}

func exportConditionInfo(condInfo py.Object) refgame.ConditionInfo {
	info := refgame.ConditionInfo{
		Players:      byteAttr(condInfo, "players"),
		FullK:        byteAttr(condInfo, "full"),
		PartialK:     byteAttr(condInfo, "partial"),
		NoneK:        byteAttr(condInfo, "none"),
		PosEdges:     byteAttr(condInfo, "pos"),
		NegEdges:     byteAttr(condInfo, "neg"),
		NeutralEdges: byteAttr(condInfo, "neutral"),
	}
	return info
}

func getConditionSelector(cond_selector py.Object, sel *refgame.ConditionSelector) error {

	info, err := py.GetAttrString(cond_selector, "min")
	if err != nil {
		return err
	}
	sel.Min = exportConditionInfo(info)

	info, err = py.GetAttrString(cond_selector, "max")
	if err != nil {
		return err
	}
	sel.Max = exportConditionInfo(info)

	return nil
}

func init() {

	/////////////////////////////////
	// Condition
	{
		pyConditionType.Dict["NumPlayers"] = py.MustNewMethod("NumPlayers", py_Condition_NumPlayers, 0, "")
		pyConditionType.Dict["NumPairs"] = py.MustNewMethod("NumPairs", py_Condition_NumPairs, 0, "")
		pyConditionType.Dict["Knowledge"] = py.MustNewMethod("Knowledge", py_Condition_Knowledge, 0, "returns the expanded knowledge label of each player")
		pyConditionType.Dict["Incentives"] = py.MustNewMethod("Incentives", py_Condition_Incentives, 0, "returns the incentive sign of each player pair")
		pyConditionType.Dict["Stream"] = py.MustNewMethod("Stream", py_Condition_Stream, 0, "")
	}

	/////////////////////////////////
	// Atlas
	{
		pyAtlasType.Dict["Select"] = py.MustNewMethod("Select", py_Atlas_Select, 0, "")
		pyAtlasType.Dict["NumConditions"] = py.MustNewMethod("NumConditions", py_Atlas_NumConditions, 0, "")
		pyAtlasType.Dict["Close"] = py.MustNewMethod("Close", py_Atlas_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenAtlas"] = py.MustNewMethod("OpenAtlas", py_Workspace_OpenAtlas, 0, "")
		pyWorkspaceType.Dict["AtlasExists"] = py.MustNewMethod("AtlasExists", py_Workspace_AtlasExists, 0, "")
	}

	/////////////////////////////////
	// ConditionStream
	{
		pyConditionStreamType.Dict["Go"] = py.MustNewMethod("Go", py_ConditionStream_Go, 0, "counts the number of conditions output from the ConditionStream")
		pyConditionStreamType.Dict["Print"] = py.MustNewMethod("Print", py_ConditionStream_Print, 0, "prints each condition from the ConditionStream")
		pyConditionStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_ConditionStream_AddTo, 0, "")
		pyConditionStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_ConditionStream_DropDupes, 0, "")
		pyConditionStreamType.Dict["Select"] = py.MustNewMethod("Select", py_ConditionStream_Select, 0, "")
		pyConditionStreamType.Dict["PermuteSigns"] = py.MustNewMethod("PermuteSigns", py_ConditionStream_PermuteSigns, 0, "")
	}

	/////////////////////////////////
	// Report
	{
		pyReportType.Dict["Section"] = py.MustNewMethod("Section", py_Report_Section, 0, "opens a new titled report section")
		pyReportType.Dict["Prose"] = py.MustNewMethod("Prose", py_Report_Prose, 0, "appends a prose paragraph to the open section")
		pyReportType.Dict["HeaderImage"] = py.MustNewMethod("HeaderImage", py_Report_HeaderImage, 0, "")
		pyReportType.Dict["Figure"] = py.MustNewMethod("Figure", py_Report_Figure, 0, "draws one condition into the open section")
		pyReportType.Dict["Gallery"] = py.MustNewMethod("Gallery", py_Report_Gallery, 0, "draws every condition from a stream into the open section")
		pyReportType.Dict["SaveHTML"] = py.MustNewMethod("SaveHTML", py_Report_SaveHTML, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewCondition", py_NewCondition, 0, ""),
			py.MustNewMethod("StreamConditions", py_StreamConditions, 0, ""),
			py.MustNewMethod("EnumConditions", py_EnumConditions, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
			py.MustNewMethod("NewReport", py_NewReport, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"PY_VERSION":  py.String("v3.4.0"),
			"MIN_PLAYERS": py.Int(refgame.MinPlayers),
			"MAX_PLAYERS": py.Int(refgame.MaxPlayers),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_refgame",
				Doc:  "reference-game condition atlas and diagram notebook module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})

	}
}
