// Package jobxml renders job configurations as XML job definition documents, validates
// such documents and formats validation reports.
//
// Every function in this package is pure: no I/O, no logging, no shared state.
package jobxml

import (
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-job-composer/internal/common/xmlutil"
	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
)

// The declaration, root tag, namespace and version identify a document of this family.
const (
	Declaration = `<?xml version="1.0" encoding="UTF-8"?>`
	RootTag     = "job"
	Namespace   = "http://xmlns.jcp.org/xml/ns/javaee"
	Version     = "1.0"
)

const indentUnit = "  "

type attr struct {
	name  string
	value string
}

type generator struct {
	b      strings.Builder
	policy *jobmodel.RestartPolicy
}

// Generate renders cfg as an XML job document. It never fails: absent optional data is
// omitted and missing required data produces an incomplete document for Validate to flag.
func Generate(cfg *jobmodel.JobConfiguration) string {
	if cfg == nil {
		cfg = &jobmodel.JobConfiguration{}
	}

	g := &generator{policy: cfg.Restart}
	g.line(0, Declaration)

	attrs := []attr{{"id", cfg.ID}, {"xmlns", Namespace}, {"version", Version}}
	if cfg.Restart != nil {
		attrs = append(attrs, attr{"restartable", strconv.FormatBool(cfg.Restart.Restartable)})
	}
	g.open(0, RootTag, attrs...)
	g.properties(1, cfg.Properties)
	g.listeners(1, cfg.Listeners)
	for _, step := range cfg.Steps {
		g.step(1, step)
	}
	g.close(0, RootTag)

	return g.b.String()
}

// step dispatches on the closed set of step kinds. Nested flows and splits recurse here.
func (g *generator) step(depth int, step jobmodel.Step) {
	switch s := step.(type) {
	case *jobmodel.BatchletStep:
		g.batchletStep(depth, s)
	case *jobmodel.ChunkStep:
		g.chunkStep(depth, s, nil)
	case *jobmodel.PartitionedChunkStep:
		g.chunkStep(depth, &s.ChunkStep, s)
	case *jobmodel.DecisionStep:
		g.decision(depth, s)
	case *jobmodel.SplitStep:
		g.split(depth, s)
	case *jobmodel.FlowStep:
		g.flow(depth, s)
	}
}

func (g *generator) batchletStep(depth int, s *jobmodel.BatchletStep) {
	g.open(depth, "step", g.stepAttrs(s.Name, s.Restart, s.ExecutionContext)...)
	g.properties(depth+1, s.Properties)
	g.listeners(depth+1, s.Listeners)
	g.ref(depth+1, "batchlet", s.BatchletClass)
	g.transitions(depth+1, s.Transitions)
	g.close(depth, "step")
}

func (g *generator) chunkStep(depth int, s *jobmodel.ChunkStep, partitioned *jobmodel.PartitionedChunkStep) {
	g.open(depth, "step", g.stepAttrs(s.Name, s.Restart, s.ExecutionContext)...)
	g.properties(depth+1, s.Properties)
	g.listeners(depth+1, s.Listeners)

	inner := depth + 2
	g.open(depth+1, "chunk", chunkAttrs(s)...)
	if s.Checkpoint.IsCustom() {
		if len(s.Checkpoint.CustomPolicyProperties) > 0 {
			g.open(inner, "checkpoint-algorithm", attr{"ref", s.Checkpoint.CustomPolicy})
			g.properties(inner+1, s.Checkpoint.CustomPolicyProperties)
			g.close(inner, "checkpoint-algorithm")
		} else {
			g.empty(inner, "checkpoint-algorithm", attr{"ref", s.Checkpoint.CustomPolicy})
		}
	}
	g.ref(inner, "reader", s.ReaderClass)
	g.ref(inner, "processor", s.ProcessorClass)
	g.exceptionClasses(inner, "skippable-exception-classes", s.Skippable)
	g.exceptionClasses(inner, "retryable-exception-classes", s.Retryable)
	g.exceptionClasses(inner, "no-rollback-exception-classes", s.NoRollback)
	g.ref(inner, "writer", s.WriterClass)
	if partitioned != nil {
		g.partition(inner, partitioned)
	}
	g.close(depth+1, "chunk")

	g.transitions(depth+1, s.Transitions)
	g.close(depth, "step")
}

func chunkAttrs(s *jobmodel.ChunkStep) []attr {
	var attrs []attr
	if cp := s.Checkpoint; cp != nil && cp.Enabled {
		policy := "item"
		if cp.CustomPolicy != "" {
			policy = "custom"
		}
		attrs = append(attrs, attr{"checkpoint-policy", policy})
		if cp.ItemCount > 0 {
			attrs = append(attrs, attr{"item-count", strconv.Itoa(cp.ItemCount)})
		}
		if cp.TimeLimit > 0 {
			attrs = append(attrs, attr{"time-limit", strconv.Itoa(cp.TimeLimit)})
		}
	}
	if s.SkipLimit > 0 {
		attrs = append(attrs, attr{"skip-limit", strconv.Itoa(s.SkipLimit)})
	}
	if s.RetryLimit > 0 {
		attrs = append(attrs, attr{"retry-limit", strconv.Itoa(s.RetryLimit)})
	}
	return attrs
}

func (g *generator) partition(depth int, s *jobmodel.PartitionedChunkStep) {
	var children []func()
	if p := s.Partition; p != nil && p.Enabled {
		switch {
		case p.MapperClass != "":
			children = append(children, func() { g.ref(depth+1, "mapper", p.MapperClass) })
		case p.PartitionCount > 0:
			children = append(children, func() {
				g.empty(depth+1, "plan", attr{"partitions", strconv.Itoa(p.PartitionCount)})
			})
		}
		for _, c := range []struct{ tag, class string }{
			{"collector", p.CollectorClass},
			{"analyzer", p.AnalyzerClass},
			{"reducer", p.ReducerClass},
		} {
			if c.class != "" {
				tag, class := c.tag, c.class
				children = append(children, func() { g.ref(depth+1, tag, class) })
			}
		}
	}
	// an advanced setup with nothing configured falls back to the simple partitioner
	if len(children) == 0 && s.PartitionerClass != "" {
		children = append(children, func() { g.ref(depth+1, "partitioner", s.PartitionerClass) })
	}

	if len(children) == 0 {
		return
	}
	g.open(depth, "partition")
	for _, render := range children {
		render()
	}
	g.close(depth, "partition")
}

func (g *generator) decision(depth int, s *jobmodel.DecisionStep) {
	g.open(depth, "decision", attr{"id", s.Name})
	g.properties(depth+1, s.Properties)
	g.ref(depth+1, "decider", s.DeciderClass)
	g.transitions(depth+1, s.Transitions)
	g.close(depth, "decision")
}

func (g *generator) split(depth int, s *jobmodel.SplitStep) {
	g.open(depth, "split", attr{"id", s.Name})
	for i := range s.Flows {
		g.flow(depth+1, &s.Flows[i])
	}
	g.next(depth+1, s.NextStep)
	g.close(depth, "split")
}

func (g *generator) flow(depth int, s *jobmodel.FlowStep) {
	attrs := append([]attr{{"id", s.Name}}, inheritanceAttrs(s.ExecutionContext)...)
	g.open(depth, "flow", attrs...)
	if s.Description != "" {
		g.comment(depth+1, s.Description)
	}
	if len(s.Steps) == 0 {
		g.comment(depth+1, "Flow "+s.Name+" has no steps configured")
	}
	for _, step := range s.Steps {
		g.step(depth+1, step)
	}
	g.next(depth+1, s.NextStep)
	g.close(depth, "flow")
}

func (g *generator) stepAttrs(name string, own *jobmodel.StepRestart, ec *jobmodel.ExecutionContext) []attr {
	attrs := []attr{{"id", name}}
	if r := jobmodel.EffectiveRestart(own, g.policy); r != nil {
		attrs = append(attrs, attr{"restartable", strconv.FormatBool(r.Restartable)})
		if r.StartLimit > 0 {
			attrs = append(attrs, attr{"start-limit", strconv.Itoa(r.StartLimit)})
		}
		attrs = append(attrs, attr{"allow-start-if-complete", strconv.FormatBool(r.AllowStartIfComplete)})
	}
	return append(attrs, inheritanceAttrs(ec)...)
}

func inheritanceAttrs(ec *jobmodel.ExecutionContext) []attr {
	if ec == nil {
		return nil
	}
	var attrs []attr
	if ec.JSLName != "" {
		attrs = append(attrs, attr{"jsl-name", ec.JSLName})
	}
	if ec.Abstract {
		attrs = append(attrs, attr{"abstract", "true"})
	}
	return attrs
}

func (g *generator) properties(depth int, props []jobmodel.Property) {
	if len(props) == 0 {
		return
	}
	g.open(depth, "properties")
	for _, p := range props {
		g.empty(depth+1, "property", attr{"name", p.Name}, attr{"value", p.Value})
	}
	g.close(depth, "properties")
}

func (g *generator) listeners(depth int, refs []string) {
	if len(refs) == 0 {
		return
	}
	g.open(depth, "listeners")
	for _, ref := range refs {
		g.empty(depth+1, "listener", attr{"ref", ref})
	}
	g.close(depth, "listeners")
}

func (g *generator) exceptionClasses(depth int, tag string, classes jobmodel.ExceptionClasses) {
	if classes.Empty() {
		return
	}
	g.open(depth, tag)
	for _, class := range classes.Include {
		g.empty(depth+1, "include", attr{"class", class})
	}
	for _, class := range classes.Exclude {
		g.empty(depth+1, "exclude", attr{"class", class})
	}
	g.close(depth, tag)
}

func (g *generator) transitions(depth int, transitions []jobmodel.Transition) {
	for _, t := range transitions {
		attrs := []attr{{"on", t.On}}
		switch t.Action {
		case jobmodel.ActionNext:
			if t.To != "" {
				attrs = append(attrs, attr{"to", t.To})
			}
		case jobmodel.ActionEnd, jobmodel.ActionFail, jobmodel.ActionStop:
			if t.ExitStatus != "" {
				attrs = append(attrs, attr{"exit-status", t.ExitStatus})
			}
		default:
			continue
		}
		g.empty(depth, string(t.Action), attrs...)
	}
}

func (g *generator) next(depth int, to string) {
	if to != "" {
		g.empty(depth, "next", attr{"on", "*"}, attr{"to", to})
	}
}

// ref renders <tag ref="class"/> when class is set.
func (g *generator) ref(depth int, tag, class string) {
	if class != "" {
		g.empty(depth, tag, attr{"ref", class})
	}
}

func (g *generator) open(depth int, tag string, attrs ...attr) {
	g.line(depth, "<"+tag+formatAttrs(attrs)+">")
}

func (g *generator) empty(depth int, tag string, attrs ...attr) {
	g.line(depth, "<"+tag+formatAttrs(attrs)+"/>")
}

func (g *generator) close(depth int, tag string) {
	g.line(depth, "</"+tag+">")
}

func (g *generator) comment(depth int, text string) {
	g.line(depth, "<!-- "+xmlutil.CommentText(text)+" -->")
}

func (g *generator) line(depth int, text string) {
	g.b.WriteString(strings.Repeat(indentUnit, depth))
	g.b.WriteString(text)
	g.b.WriteByte('\n')
}

func formatAttrs(attrs []attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(xmlutil.EscapeAttr(a.value))
		b.WriteByte('"')
	}
	return b.String()
}
