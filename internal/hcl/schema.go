package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the decode target for the top level of any definition file.
type fileRoot struct {
	Pipelines []*pipelineBlock `hcl:"pipeline,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type pipelineBlock struct {
	Name        string        `hcl:"name,label"`
	Credentials []string      `hcl:"credentials,optional"`
	Stages      []*stageBlock `hcl:"stage,block"`
}

// stageBlock carries both stage forms; exactly one of Steps or Parallel may
// be present, enforced by validation rather than the HCL schema.
type stageBlock struct {
	Name        string         `hcl:"name,label"`
	Credentials []string       `hcl:"credentials,optional"`
	Steps       []*stepBlock   `hcl:"step,block"`
	Parallel    *parallelBlock `hcl:"parallel,block"`
}

type parallelBlock struct {
	Stages []*stageBlock `hcl:"stage,block"`
}

type stepBlock struct {
	Run         hcl.Expression    `hcl:"run"`
	Credentials []string          `hcl:"credentials,optional"`
	Env         map[string]string `hcl:"env,optional"`
	Archive     []string          `hcl:"archive,optional"`
	Notify      hcl.Expression    `hcl:"notify,optional"`
	Timeout     string            `hcl:"timeout,optional"`
}
