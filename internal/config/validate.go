package config

// Validate checks the structural integrity of the definition before any
// execution. It is pure: calling it any number of times on the same
// definition yields the same result and mutates nothing.
//
// It fails with a *DefinitionError when:
//   - a stage name is not unique within the definition
//   - a parallel group has no child stages
//   - a leaf stage has no steps, or a step has no run command
//   - a step references a credential identifier that no enclosing scope declares
//   - a step declares a negative timeout
func (p *Pipeline) Validate() error {
	seen := make(map[string]struct{})
	scope := credentialScope(nil, p.Credentials)
	for _, stage := range p.Stages {
		if err := validateStage(stage, seen, scope); err != nil {
			return err
		}
	}
	return nil
}

func validateStage(s *Stage, seen map[string]struct{}, enclosing map[string]struct{}) error {
	if s.Name == "" {
		return definitionErrorf("stage with empty name")
	}
	if _, dup := seen[s.Name]; dup {
		return definitionErrorf("duplicate stage name %q", s.Name)
	}
	seen[s.Name] = struct{}{}

	scope := credentialScope(enclosing, s.Credentials)

	switch s.Kind {
	case StageGroup:
		if len(s.Steps) > 0 {
			return definitionErrorf("stage %q declares both steps and a parallel block", s.Name)
		}
		if len(s.Children) == 0 {
			return definitionErrorf("parallel group %q has no child stages", s.Name)
		}
		for _, child := range s.Children {
			if err := validateStage(child, seen, scope); err != nil {
				return err
			}
		}
	case StageLeaf:
		if len(s.Children) > 0 {
			return definitionErrorf("stage %q has child stages but is not a parallel group", s.Name)
		}
		if len(s.Steps) == 0 {
			return definitionErrorf("stage %q has no steps", s.Name)
		}
		for i, step := range s.Steps {
			if err := validateStep(s.Name, i, step, scope); err != nil {
				return err
			}
		}
	default:
		return definitionErrorf("stage %q has unknown kind %d", s.Name, s.Kind)
	}
	return nil
}

func validateStep(stage string, idx int, step *Step, scope map[string]struct{}) error {
	if step.Run.IsZero() {
		return definitionErrorf("step %d of stage %q has no run command", idx+1, stage)
	}
	if step.Timeout < 0 {
		return definitionErrorf("step %d of stage %q has a negative timeout", idx+1, stage)
	}
	for _, id := range step.Credentials {
		if _, ok := scope[id]; !ok {
			return definitionErrorf("step %d of stage %q references undeclared credential %q", idx+1, stage, id)
		}
	}
	return nil
}

// credentialScope returns the resolvable identifier set for a scope: the
// enclosing scope's identifiers plus the ones declared at this level.
func credentialScope(enclosing map[string]struct{}, declared []string) map[string]struct{} {
	scope := make(map[string]struct{}, len(enclosing)+len(declared))
	for id := range enclosing {
		scope[id] = struct{}{}
	}
	for _, id := range declared {
		scope[id] = struct{}{}
	}
	return scope
}
