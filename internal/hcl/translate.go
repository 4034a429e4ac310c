package hcl

import (
	"fmt"
	"time"

	"github.com/stageflow/stageflow/internal/config"
)

// translatePipeline converts the HCL-specific schema into the agnostic model.
func (l *Loader) translatePipeline(b *pipelineBlock) (*config.Pipeline, error) {
	p := &config.Pipeline{
		Name:        b.Name,
		Credentials: b.Credentials,
	}
	for _, sb := range b.Stages {
		stage, err := l.translateStage(sb)
		if err != nil {
			return nil, err
		}
		p.Stages = append(p.Stages, stage)
	}
	return p, nil
}

func (l *Loader) translateStage(b *stageBlock) (*config.Stage, error) {
	stage := &config.Stage{
		Name:        b.Name,
		Credentials: b.Credentials,
	}

	if b.Parallel != nil {
		stage.Kind = config.StageGroup
		for _, child := range b.Parallel.Stages {
			translated, err := l.translateStage(child)
			if err != nil {
				return nil, err
			}
			stage.Children = append(stage.Children, translated)
		}
	}

	for _, sb := range b.Steps {
		step, err := l.translateStep(b.Name, sb)
		if err != nil {
			return nil, err
		}
		stage.Steps = append(stage.Steps, step)
	}
	return stage, nil
}

func (l *Loader) translateStep(stage string, b *stepBlock) (*config.Step, error) {
	step := &config.Step{
		Run:         config.NewTemplate(b.Run),
		Credentials: b.Credentials,
		Env:         b.Env,
		Archive:     b.Archive,
	}
	// An absent optional expression decodes as a synthetic null, not nil.
	if b.Notify != nil {
		if v, diags := b.Notify.Value(nil); diags.HasErrors() || !v.IsNull() {
			step.Notify = config.NewTemplate(b.Notify)
		}
	}
	if b.Timeout != "" {
		d, err := time.ParseDuration(b.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q in stage %q: %w", b.Timeout, stage, err)
		}
		step.Timeout = d
	}
	return step, nil
}
