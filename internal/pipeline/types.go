package pipeline

// #region stages

// Stage names one unit of downstream generation work.
type Stage string

const (
	StageParameters Stage = "parameters"
	StageDilemma    Stage = "dilemma"
	StageMirror     Stage = "mirror"
	StageNews       Stage = "news"
	StageSupport    Stage = "support"
	StageCompass    Stage = "compass"
)

// AllStages lists every stage in dispatch order.
var AllStages = []Stage{
	StageParameters,
	StageDilemma,
	StageMirror,
	StageNews,
	StageSupport,
	StageCompass,
}

// #endregion stages

// #region result

// Result tracks one stage's completion. Err is readable once Done has
// closed; a nil Err with a closed Done means the stage succeeded and its
// payload was written to the game container.
type Result struct {
	Stage Stage

	err  error
	done chan struct{}
}

func newResult(stage Stage) *Result {
	return &Result{Stage: stage, done: make(chan struct{})}
}

// Done closes when the stage has settled, success or failure.
func (r *Result) Done() <-chan struct{} { return r.done }

// Completed reports whether the stage has settled without blocking.
func (r *Result) Completed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Err returns the stage failure, if any. Valid only after Done closes.
func (r *Result) Err() error { return r.err }

func (r *Result) complete(err error) {
	r.err = err
	close(r.done)
}

// #endregion result

// #region set

// Set is one run's collection of stage results.
type Set struct {
	results map[Stage]*Result
}

func newSet() *Set {
	s := &Set{results: make(map[Stage]*Result, len(AllStages))}
	for _, st := range AllStages {
		s.results[st] = newResult(st)
	}
	return s
}

// NewManualSet returns a set whose stages are settled by calling the
// returned function, for consumers that script stage completion instead
// of dispatching real work.
func NewManualSet() (*Set, func(Stage, error)) {
	s := newSet()
	return s, func(st Stage, err error) { s.results[st].complete(err) }
}

// Result returns the tracker for one stage.
func (s *Set) Result(stage Stage) *Result {
	return s.results[stage]
}

// Wait blocks until every stage has settled.
func (s *Set) Wait() {
	for _, st := range AllStages {
		<-s.results[st].done
	}
}

// Failed returns the stages that settled with an error.
func (s *Set) Failed() []Stage {
	var out []Stage
	for _, st := range AllStages {
		r := s.results[st]
		if r.Completed() && r.err != nil {
			out = append(out, st)
		}
	}
	return out
}

// #endregion set
