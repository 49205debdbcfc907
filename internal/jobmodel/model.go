// Package jobmodel describes a batch job configuration: job metadata, restart policy,
// properties, listeners and an ordered list of steps.
//
// Steps form a closed set of six kinds. Every concrete step type implements Step and
// nothing outside this package can add a seventh.
package jobmodel

// StepKind identifies which kind of element a Step renders to.
type StepKind string

const (
	KindBatchlet           StepKind = "batchlet"
	KindChunk              StepKind = "chunk"
	KindChunkWithPartition StepKind = "chunk-partition"
	KindDecision           StepKind = "decision"
	KindSplit              StepKind = "split"
	KindFlow               StepKind = "flow"
)

// TransitionAction is what happens when a transition matches.
type TransitionAction string

const (
	ActionNext TransitionAction = "next"
	ActionFail TransitionAction = "fail"
	ActionStop TransitionAction = "stop"
	ActionEnd  TransitionAction = "end"
)

// JobConfiguration is the root of a job definition.
type JobConfiguration struct {
	// ID becomes the job element's id and the export file name stem.
	ID         string
	Restart    *RestartPolicy
	Properties []Property
	Listeners  []string
	Steps      []Step
}

// RestartPolicy holds the job restartable flag and the defaults applied to steps that
// carry no restart settings of their own.
type RestartPolicy struct {
	Restartable  bool
	StepDefaults *StepRestart
}

// StepRestart holds step-level restart attributes. A StartLimit of zero is not rendered.
type StepRestart struct {
	Restartable          bool
	StartLimit           int
	AllowStartIfComplete bool
}

// Property is a name/value pair. Values are opaque and may hold job parameter expressions.
type Property struct {
	Name  string
	Value string
}

// ExecutionContext carries inheritance attributes of a step or flow.
type ExecutionContext struct {
	JSLName  string
	Abstract bool
}

// Transition maps an exit status to an action. To is only meaningful for ActionNext and
// ExitStatus only for the terminating actions.
type Transition struct {
	On         string
	Action     TransitionAction
	To         string
	ExitStatus string
}

// CheckpointConfig controls the chunk checkpoint policy.
type CheckpointConfig struct {
	Enabled                bool
	ItemCount              int
	TimeLimit              int
	CustomPolicy           string
	CustomPolicyProperties []Property
}

// IsCustom reports whether a custom checkpoint algorithm is configured.
func (c *CheckpointConfig) IsCustom() bool {
	return c != nil && c.Enabled && c.CustomPolicy != ""
}

// ExceptionClasses is an include/exclude list of exception class names.
type ExceptionClasses struct {
	Include []string
	Exclude []string
}

// Empty reports whether neither list has entries.
func (e ExceptionClasses) Empty() bool {
	return len(e.Include) == 0 && len(e.Exclude) == 0
}

// PartitionConfig is the advanced partition setup. MapperClass and PartitionCount are
// alternatives; the mapper wins when both are set.
type PartitionConfig struct {
	Enabled        bool
	MapperClass    string
	PartitionCount int
	CollectorClass string
	AnalyzerClass  string
	ReducerClass   string
}

// Step is one element of a job or flow.
type Step interface {
	Kind() StepKind
	// StepName returns the element id.
	StepName() string
	isStep()
}

// BatchletStep is a step backed by a single batchlet.
type BatchletStep struct {
	Name             string
	BatchletClass    string
	Properties       []Property
	Listeners        []string
	ExecutionContext *ExecutionContext
	Restart          *StepRestart
	Transitions      []Transition
}

// ChunkStep is a read-process-write step.
type ChunkStep struct {
	Name             string
	ReaderClass      string
	ProcessorClass   string
	WriterClass      string
	Properties       []Property
	Listeners        []string
	ExecutionContext *ExecutionContext
	Restart          *StepRestart
	Checkpoint       *CheckpointConfig
	Skippable        ExceptionClasses
	Retryable        ExceptionClasses
	NoRollback       ExceptionClasses
	SkipLimit        int
	RetryLimit       int
	Transitions      []Transition
}

// PartitionedChunkStep is a chunk step whose work is split across partitions. Either
// Partition (advanced) or PartitionerClass (simple) describes the plan.
type PartitionedChunkStep struct {
	ChunkStep
	PartitionerClass string
	Partition        *PartitionConfig
}

// DecisionStep branches on the exit status returned by its decider.
type DecisionStep struct {
	Name         string
	DeciderClass string
	Properties   []Property
	Transitions  []Transition
}

// SplitStep runs its flows concurrently.
type SplitStep struct {
	Name     string
	Flows    []FlowStep
	NextStep string
}

// FlowStep is a named sequence of steps, which may itself contain flows and splits.
type FlowStep struct {
	Name             string
	Description      string
	ExecutionContext *ExecutionContext
	Steps            []Step
	NextStep         string
}

func (*BatchletStep) Kind() StepKind         { return KindBatchlet }
func (*ChunkStep) Kind() StepKind            { return KindChunk }
func (*PartitionedChunkStep) Kind() StepKind { return KindChunkWithPartition }
func (*DecisionStep) Kind() StepKind         { return KindDecision }
func (*SplitStep) Kind() StepKind            { return KindSplit }
func (*FlowStep) Kind() StepKind             { return KindFlow }

func (s *BatchletStep) StepName() string { return s.Name }
func (s *ChunkStep) StepName() string    { return s.Name }
func (s *DecisionStep) StepName() string { return s.Name }
func (s *SplitStep) StepName() string    { return s.Name }
func (s *FlowStep) StepName() string     { return s.Name }

func (*BatchletStep) isStep() {}
func (*ChunkStep) isStep()    {}
func (*DecisionStep) isStep() {}
func (*SplitStep) isStep()    {}
func (*FlowStep) isStep()     {}

// EffectiveRestart returns the step's own restart settings, falling back to the job
// policy's step defaults.
func EffectiveRestart(own *StepRestart, policy *RestartPolicy) *StepRestart {
	if own != nil {
		return own
	}
	if policy != nil {
		return policy.StepDefaults
	}
	return nil
}
