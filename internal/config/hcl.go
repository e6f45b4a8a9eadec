package config

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/nne/internal/apperr"
	"github.com/vk/nne/internal/ctxlog"
)

// HCLLoader reads configuration from an HCL file. Attribute expressions may
// call env("NAME") to read an environment variable.
type HCLLoader struct {
	lookupEnv func(string) (string, bool)
}

// NewHCLLoader creates an HCL configuration loader reading the process
// environment.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{lookupEnv: os.LookupEnv}
}

// Load decodes path. Unknown attributes are rejected.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Raw, error) {
	ctxlog.FromContext(ctx).Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &apperr.ConfigError{Err: fmt.Errorf("failed to parse HCL file %s: %w", path, diags)}
	}

	var raw Raw
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &raw)
	if diags.HasErrors() {
		return nil, &apperr.ConfigError{Err: fmt.Errorf("failed to decode HCL file %s: %w", path, diags)}
	}
	return &raw, nil
}

func (l *HCLLoader) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": l.envFunc(),
		},
	}
}

// envFunc implements env(name), failing when the variable is unset.
func (l *HCLLoader) envFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			name := args[0].AsString()
			v, ok := l.lookupEnv(name)
			if !ok {
				return cty.NilVal, fmt.Errorf("environment variable %q is not set", name)
			}
			return cty.StringVal(v), nil
		},
	})
}
