// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements custom metatype catalogs declared in HCL:
//
//	metatype "hard_shrink" {
//	  name    = "HardShrinkOp"
//	  aliases = ["hardshrink"]
//
//	  subtype "wide_hard_shrink" {
//	    match = call.inside_module && attrs.kind == "convolution" && attrs.groups > 4
//	  }
//	}
//
//	metatype "conv2d_extensions" {
//	  extends = "module_conv2d"
//	  subtype "pointwise_conv2d" {
//	    match = attrs.kind == "convolution" && max(attrs.kernel_size...) == 1
//	  }
//	}
//
// A block with `extends` attaches its subtypes beneath an already registered
// metatype instead of declaring a new root.
package metatype

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/fsutil"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// catalogRootSchema defines the top-level structure of a catalog file.
type catalogRootSchema struct {
	Metatypes []*hclMetatype `hcl:"metatype,block"`
}

// hclMetatype represents a single 'metatype' or 'subtype' block for decoding purposes.
type hclMetatype struct {
	Key               string         `hcl:"key,label"`
	Name              string         `hcl:"name,optional"`
	Extends           string         `hcl:"extends,optional"`
	Aliases           []string       `hcl:"aliases,optional"`
	OutputChannelAxis *int           `hcl:"output_channel_axis,optional"`
	IgnoredInputPorts []int          `hcl:"ignored_input_ports,optional"`
	HWConfigNames     []string       `hcl:"hw_config_names,optional"`
	Traits            []string       `hcl:"traits,optional"`
	Role              string         `hcl:"role,optional"`
	Match             hcl.Expression `hcl:"match,optional"`
	Subtypes          []*hclMetatype `hcl:"subtype,block"`
}

// CatalogEntry is one decoded top-level block of a catalog file.
type CatalogEntry struct {
	// Extends is the key of the registered metatype the subtypes attach to, if any.
	Extends  string
	Metatype *Metatype
}

var matchFunctions = map[string]function.Function{
	"length":   stdlib.LengthFunc,
	"contains": stdlib.ContainsFunc,
	"max":      stdlib.MaxFunc,
	"min":      stdlib.MinFunc,
}

// ExprPredicate evaluates an HCL expression against a node. The expression sees
// two variables: `attrs` (the layer attributes plus their `kind`) and `call`
// (`{ inside_module = bool }`). Anything other than a known `true` result,
// including evaluation errors, means "no match".
type ExprPredicate struct {
	Expr hcl.Expression
	// Source is the expression text as written in the catalog.
	Source string
}

// String returns the expression source.
func (p *ExprPredicate) String() string {
	return p.Source
}

// Match implements Predicate.
func (p *ExprPredicate) Match(attrs layerattr.Attributes, call CallContext) bool {
	attrVal, err := layerattr.ToCty(attrs)
	if err != nil {
		return false
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"attrs": attrVal,
			"call": cty.ObjectVal(map[string]cty.Value{
				"inside_module": cty.BoolVal(call.InsideModule),
			}),
		},
		Functions: matchFunctions,
	}

	val, diags := p.Expr.Value(evalCtx)
	if diags.HasErrors() || val.IsNull() || !val.IsWhollyKnown() {
		return false
	}
	val, err = convert.Convert(val, cty.Bool)
	if err != nil {
		return false
	}
	return val.True()
}

// ParseCatalog decodes every top-level block of a parsed catalog file.
func ParseCatalog(hclFile *hcl.File) ([]CatalogEntry, hcl.Diagnostics) {
	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	schema := &catalogRootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, schema)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	entries := make([]CatalogEntry, 0, len(schema.Metatypes))
	for _, block := range schema.Metatypes {
		if block.Extends != "" {
			if block.Name != "" || len(block.Aliases) > 0 || hasMatch(block.Match) {
				allDiags = append(allDiags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid extension block",
					Detail:   fmt.Sprintf("Metatype block '%s' extends '%s' and may only declare subtypes.", block.Key, block.Extends),
				})
				continue
			}
		}

		mt, mtDiags := translateMetatype(block, true)
		allDiags = append(allDiags, mtDiags...)
		if mtDiags.HasErrors() {
			continue
		}
		mt.Walk(func(m *Metatype) {
			if p, ok := m.Match.(*ExprPredicate); ok {
				p.Source = string(p.Expr.Range().SliceBytes(hclFile.Bytes))
			}
		})
		entries = append(entries, CatalogEntry{Extends: block.Extends, Metatype: mt})
	}

	return entries, allDiags
}

// translateMetatype converts a decoded block into a Metatype, recursing into subtypes.
func translateMetatype(block *hclMetatype, isRoot bool) (*Metatype, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	mt := &Metatype{
		Key:               block.Key,
		Name:              block.Name,
		Aliases:           block.Aliases,
		OutputChannelAxis: block.OutputChannelAxis,
		IgnoredInputPorts: block.IgnoredInputPorts,
		HWConfigNames:     block.HWConfigNames,
	}
	if mt.Name == "" {
		mt.Name = block.Key
	}

	for _, name := range block.Traits {
		trait, ok := traitByName(name)
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown trait",
				Detail:   fmt.Sprintf("Metatype '%s' declares unknown trait '%s'.", block.Key, name),
			})
			continue
		}
		mt.Traits |= trait
	}

	switch block.Role {
	case "":
	case "input_noop":
		mt.Role = RoleInputNoop
	case "output_noop":
		mt.Role = RoleOutputNoop
	case "noop":
		mt.Role = RoleNoop
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown role",
			Detail:   fmt.Sprintf("Metatype '%s' declares unknown role '%s'.", block.Key, block.Role),
		})
	}

	if hasMatch(block.Match) {
		if isRoot {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unexpected match expression",
				Detail:   fmt.Sprintf("Root metatype '%s' cannot declare 'match'; only subtypes are matched.", block.Key),
				Subject:  block.Match.Range().Ptr(),
			})
		}
		for _, traversal := range block.Match.Variables() {
			if root := traversal.RootName(); root != "attrs" && root != "call" {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unknown variable in match expression",
					Detail:   fmt.Sprintf("Only 'attrs' and 'call' are available, got '%s'.", root),
					Subject:  traversal.SourceRange().Ptr(),
				})
			}
		}
		mt.Match = &ExprPredicate{Expr: block.Match}
	} else if !isRoot {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing match expression",
			Detail:   fmt.Sprintf("Subtype '%s' must declare 'match'.", block.Key),
		})
	}

	for _, sub := range block.Subtypes {
		st, stDiags := translateMetatype(sub, false)
		diags = append(diags, stDiags...)
		if st != nil {
			mt.Subtypes = append(mt.Subtypes, st)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return mt, diags
}

// hasMatch reports whether an optional expression attribute was actually set.
// gohcl substitutes a static null expression for absent attributes.
func hasMatch(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		// References to attrs/call cannot be evaluated without a context.
		return true
	}
	return !val.IsNull()
}

func traitByName(name string) (Trait, bool) {
	for _, tn := range traitNames {
		if tn.name == name {
			return tn.trait, true
		}
	}
	return 0, false
}

// Apply registers or attaches every entry.
func (r *Registry) Apply(entries []CatalogEntry) error {
	for _, e := range entries {
		var err error
		if e.Extends != "" {
			err = r.Extend(e.Extends, e.Metatype.Subtypes...)
		} else {
			err = r.Register(e.Metatype)
		}
		if err != nil {
			return fmt.Errorf("failed to apply catalog entry '%s': %w", e.Metatype.Key, err)
		}
	}
	return nil
}

// LoadCatalogs parses every .hcl file under the given paths and applies it to the registry.
func (r *Registry) LoadCatalogs(ctx context.Context, paths ...string) error {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()

	for _, path := range paths {
		logger.Debug("Registry loading metatype catalogs...", "path", path)

		filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			logger.Error("Failed to walk catalog path", "path", path, "error", err)
			return err
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl catalog files found in path", "path", path)
			continue
		}

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
			}

			entries, diags := ParseCatalog(hclFile)
			if diags.HasErrors() {
				return fmt.Errorf("failed to process catalog in %s: %w", filePath, diags)
			}
			if err := r.Apply(entries); err != nil {
				return fmt.Errorf("failed to register catalog in %s: %w", filePath, err)
			}
			logger.Debug("Successfully loaded metatypes from HCL file", "file", filePath, "entries", len(entries))
		}
	}

	logger.Info("Registry loaded successfully.", "metatypes", r.Len())
	return nil
}
