package jobmodel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-job-composer/internal/common/errors"
	"github.com/deploymenttheory/go-job-composer/internal/logger"
)

// jobFile mirrors the on-disk layout of a job configuration (YAML or JSON).
type jobFile struct {
	ID         string       `yaml:"id"`
	Restart    *restartFile `yaml:"restart"`
	Properties propertyList `yaml:"properties"`
	Listeners  []string     `yaml:"listeners"`
	Steps      []stepFile   `yaml:"steps"`
}

type restartFile struct {
	Restartable bool         `yaml:"restartable"`
	Steps       *StepRestart `yaml:"steps"`
}

type stepFile struct {
	Kind             string            `yaml:"kind"`
	Name             string            `yaml:"name"`
	Description      string            `yaml:"description"`
	Batchlet         string            `yaml:"batchlet"`
	Reader           string            `yaml:"reader"`
	Processor        string            `yaml:"processor"`
	Writer           string            `yaml:"writer"`
	Decider          string            `yaml:"decider"`
	Partitioner      string            `yaml:"partitioner"`
	Properties       propertyList      `yaml:"properties"`
	Listeners        []string          `yaml:"listeners"`
	ExecutionContext *ExecutionContext `yaml:"execution-context"`
	Restart          *StepRestart      `yaml:"restart"`
	Checkpoint       *checkpointFile   `yaml:"checkpoint"`
	Skippable        ExceptionClasses  `yaml:"skippable"`
	Retryable        ExceptionClasses  `yaml:"retryable"`
	NoRollback       ExceptionClasses  `yaml:"no-rollback"`
	SkipLimit        int               `yaml:"skip-limit"`
	RetryLimit       int               `yaml:"retry-limit"`
	Partition        *PartitionConfig  `yaml:"partition"`
	Transitions      []transitionFile  `yaml:"transitions"`
	Flows            []stepFile        `yaml:"flows"`
	Steps            []stepFile        `yaml:"steps"`
	Next             string            `yaml:"next"`
}

type checkpointFile struct {
	Enabled                bool         `yaml:"enabled"`
	ItemCount              int          `yaml:"item-count"`
	TimeLimit              int          `yaml:"time-limit"`
	CustomPolicy           string       `yaml:"custom-policy"`
	CustomPolicyProperties propertyList `yaml:"custom-policy-properties"`
}

type transitionFile struct {
	On         string `yaml:"on"`
	Action     string `yaml:"action"`
	To         string `yaml:"to"`
	ExitStatus string `yaml:"exit-status"`
}

// propertyList accepts either an ordered mapping or a sequence of {name, value} pairs.
type propertyList []Property

func (p *propertyList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		props := make(propertyList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			props = append(props, Property{Name: node.Content[i].Value, Value: node.Content[i+1].Value})
		}
		*p = props
		return nil
	case yaml.SequenceNode:
		var entries []struct {
			Name  string `yaml:"name"`
			Value string `yaml:"value"`
		}
		if err := node.Decode(&entries); err != nil {
			return err
		}
		props := make(propertyList, 0, len(entries))
		for _, e := range entries {
			props = append(props, Property{Name: e.Name, Value: e.Value})
		}
		*p = props
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*p = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: properties must be a mapping or a list of name/value pairs", node.Line)
}

// Tags for the yaml decoder on model types reused directly by the file layout.
type stepRestartFile struct {
	Restartable          bool `yaml:"restartable"`
	StartLimit           int  `yaml:"start-limit"`
	AllowStartIfComplete bool `yaml:"allow-start-if-complete"`
}

func (s *StepRestart) UnmarshalYAML(node *yaml.Node) error {
	var f stepRestartFile
	if err := node.Decode(&f); err != nil {
		return err
	}
	*s = StepRestart(f)
	return nil
}

type executionContextFile struct {
	JSLName  string `yaml:"jsl-name"`
	Abstract bool   `yaml:"abstract"`
}

func (e *ExecutionContext) UnmarshalYAML(node *yaml.Node) error {
	var f executionContextFile
	if err := node.Decode(&f); err != nil {
		return err
	}
	*e = ExecutionContext(f)
	return nil
}

type exceptionClassesFile struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

func (e *ExceptionClasses) UnmarshalYAML(node *yaml.Node) error {
	var f exceptionClassesFile
	if err := node.Decode(&f); err != nil {
		return err
	}
	*e = ExceptionClasses(f)
	return nil
}

type partitionFile struct {
	Enabled        bool   `yaml:"enabled"`
	MapperClass    string `yaml:"mapper"`
	PartitionCount int    `yaml:"partitions"`
	CollectorClass string `yaml:"collector"`
	AnalyzerClass  string `yaml:"analyzer"`
	ReducerClass   string `yaml:"reducer"`
}

func (p *PartitionConfig) UnmarshalYAML(node *yaml.Node) error {
	var f partitionFile
	if err := node.Decode(&f); err != nil {
		return err
	}
	*p = PartitionConfig(f)
	return nil
}

// Load reads a job configuration file. YAML and JSON are both accepted.
func Load(path string) (*JobConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileReadError, path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	logger.LogDebug("Loaded job configuration", map[string]interface{}{
		"file":  path,
		"job":   cfg.ID,
		"steps": len(cfg.Steps),
	})
	return cfg, nil
}

// Parse decodes a job configuration document. It does not check completeness: a step
// missing its implementation class still loads, and is left for document validation.
func Parse(data []byte) (*JobConfiguration, error) {
	var f jobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrJobConfigParse, err.Error())
	}

	cfg := &JobConfiguration{
		ID:         f.ID,
		Properties: []Property(f.Properties),
		Listeners:  f.Listeners,
	}
	if f.Restart != nil {
		cfg.Restart = &RestartPolicy{Restartable: f.Restart.Restartable, StepDefaults: f.Restart.Steps}
	}

	steps, err := convertSteps(f.Steps, "steps")
	if err != nil {
		return nil, err
	}
	cfg.Steps = steps
	return cfg, nil
}

func convertSteps(files []stepFile, path string) ([]Step, error) {
	steps := make([]Step, 0, len(files))
	for i := range files {
		step, err := convertStep(&files[i], fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func convertStep(f *stepFile, path string) (Step, error) {
	transitions, err := convertTransitions(f.Transitions, path)
	if err != nil {
		return nil, err
	}

	switch StepKind(f.Kind) {
	case KindBatchlet:
		return &BatchletStep{
			Name:             f.Name,
			BatchletClass:    f.Batchlet,
			Properties:       []Property(f.Properties),
			Listeners:        f.Listeners,
			ExecutionContext: f.ExecutionContext,
			Restart:          f.Restart,
			Transitions:      transitions,
		}, nil

	case KindChunk:
		chunk := convertChunk(f, transitions)
		return &chunk, nil

	case KindChunkWithPartition:
		return &PartitionedChunkStep{
			ChunkStep:        convertChunk(f, transitions),
			PartitionerClass: f.Partitioner,
			Partition:        f.Partition,
		}, nil

	case KindDecision:
		return &DecisionStep{
			Name:         f.Name,
			DeciderClass: f.Decider,
			Properties:   []Property(f.Properties),
			Transitions:  transitions,
		}, nil

	case KindSplit:
		flows := make([]FlowStep, 0, len(f.Flows))
		for i := range f.Flows {
			flow, err := convertFlow(&f.Flows[i], fmt.Sprintf("%s.flows[%d]", path, i))
			if err != nil {
				return nil, err
			}
			flows = append(flows, *flow)
		}
		return &SplitStep{Name: f.Name, Flows: flows, NextStep: f.Next}, nil

	case KindFlow:
		return convertFlow(f, path)

	default:
		return nil, fmt.Errorf("%w: %s: %q", errors.ErrUnknownStepKind, path, f.Kind)
	}
}

func convertFlow(f *stepFile, path string) (*FlowStep, error) {
	nested, err := convertSteps(f.Steps, path+".steps")
	if err != nil {
		return nil, err
	}
	return &FlowStep{
		Name:             f.Name,
		Description:      f.Description,
		ExecutionContext: f.ExecutionContext,
		Steps:            nested,
		NextStep:         f.Next,
	}, nil
}

func convertChunk(f *stepFile, transitions []Transition) ChunkStep {
	chunk := ChunkStep{
		Name:             f.Name,
		ReaderClass:      f.Reader,
		ProcessorClass:   f.Processor,
		WriterClass:      f.Writer,
		Properties:       []Property(f.Properties),
		Listeners:        f.Listeners,
		ExecutionContext: f.ExecutionContext,
		Restart:          f.Restart,
		Skippable:        f.Skippable,
		Retryable:        f.Retryable,
		NoRollback:       f.NoRollback,
		SkipLimit:        f.SkipLimit,
		RetryLimit:       f.RetryLimit,
		Transitions:      transitions,
	}
	if f.Checkpoint != nil {
		chunk.Checkpoint = &CheckpointConfig{
			Enabled:                f.Checkpoint.Enabled,
			ItemCount:              f.Checkpoint.ItemCount,
			TimeLimit:              f.Checkpoint.TimeLimit,
			CustomPolicy:           f.Checkpoint.CustomPolicy,
			CustomPolicyProperties: []Property(f.Checkpoint.CustomPolicyProperties),
		}
	}
	return chunk
}

func convertTransitions(files []transitionFile, path string) ([]Transition, error) {
	if len(files) == 0 {
		return nil, nil
	}
	transitions := make([]Transition, 0, len(files))
	for i, t := range files {
		action := TransitionAction(t.Action)
		if action == "" && t.To != "" {
			action = ActionNext
		}
		switch action {
		case ActionNext, ActionFail, ActionStop, ActionEnd:
		default:
			return nil, fmt.Errorf("%w: %s.transitions[%d]: %q", errors.ErrUnknownAction, path, i, t.Action)
		}
		transitions = append(transitions, Transition{On: t.On, Action: action, To: t.To, ExitStatus: t.ExitStatus})
	}
	return transitions, nil
}
