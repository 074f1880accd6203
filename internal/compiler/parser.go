package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/internal/evaluator"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Document is the YAML shape of one action node.
type Document struct {
	Name       string      `yaml:"name,omitempty"`
	Do         string      `yaml:"do"`
	ResultKey  string      `yaml:"result_key,omitempty"`
	Inject     *[]string   `yaml:"inject,omitempty"`
	When       string      `yaml:"when,omitempty"`
	WhenRef    string      `yaml:"when_ref,omitempty"`
	InjectWhen *[]string   `yaml:"inject_when,omitempty"`
	Children   []*Document `yaml:"children,omitempty"`
}

// Decode reads a YAML tree definition without resolving any name.
// Unknown keys are rejected.
func Decode(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse action tree: %w", err)
	}
	return &doc, nil
}

// References lists the executor and condition names used in the tree, sorted and deduplicated.
func (d *Document) References() (executors, conditions []string) {
	seenExec := make(map[string]bool)
	seenCond := make(map[string]bool)
	var walk func(*Document)
	walk = func(doc *Document) {
		if doc == nil {
			return
		}
		if doc.Do != "" && !seenExec[doc.Do] {
			seenExec[doc.Do] = true
			executors = append(executors, doc.Do)
		}
		if doc.WhenRef != "" && !seenCond[doc.WhenRef] {
			seenCond[doc.WhenRef] = true
			conditions = append(conditions, doc.WhenRef)
		}
		for _, child := range doc.Children {
			walk(child)
		}
	}
	walk(d)
	sort.Strings(executors)
	sort.Strings(conditions)
	return executors, conditions
}

// Parser converts YAML tree definitions into action trees, resolving
// executor and condition names against a registry.
type Parser struct {
	registry  *registry.Registry
	evaluator evaluator.Evaluator
}

// NewParser creates a parser. A nil evaluator disables `when` expressions.
func NewParser(reg *registry.Registry, eval evaluator.Evaluator) *Parser {
	return &Parser{registry: reg, evaluator: eval}
}

// Parse decodes data and builds the tree. All resolution problems are reported together.
func (p *Parser) Parse(data []byte) (*domain.Action, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	var errs []error
	action := p.build(doc, "root", &errs)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return action, nil
}

func (p *Parser) build(doc *Document, path string, errs *[]error) *domain.Action {
	if doc == nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", path, domain.ErrNilAction))
		return nil
	}
	fail := func(err error) {
		*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
	}

	action := &domain.Action{
		Name:      doc.Name,
		ResultKey: doc.ResultKey,
	}

	if doc.Do == "" {
		fail(domain.ErrMissingExecutor)
	} else if exec, err := p.registry.Executor(doc.Do); err != nil {
		fail(err)
	} else {
		action.Executor = exec
	}

	var err error
	if action.Inject, err = parseInject(doc.Inject); err != nil {
		fail(err)
	}
	if action.InjectCondition, err = parseInject(doc.InjectWhen); err != nil {
		fail(err)
	}

	switch {
	case doc.When != "" && doc.WhenRef != "":
		fail(fmt.Errorf("when and when_ref are mutually exclusive"))
	case doc.When != "":
		if p.evaluator == nil {
			fail(fmt.Errorf("no condition evaluator configured for %q", doc.When))
		} else if action.Condition, err = p.evaluator.Compile(doc.When); err != nil {
			fail(err)
		}
	case doc.WhenRef != "":
		if action.Condition, err = p.registry.Condition(doc.WhenRef); err != nil {
			fail(err)
		}
	}

	for i, child := range doc.Children {
		action.Children = append(action.Children, p.build(child, path+"/"+strconv.Itoa(i), errs))
	}
	return action
}

// parseInject maps field names onto an Inject selection. An absent list keeps
// the default; an empty one injects nothing.
func parseInject(fields *[]string) (domain.Inject, error) {
	if fields == nil {
		return domain.InjectDefault, nil
	}
	if len(*fields) == 0 {
		return domain.InjectNothing, nil
	}
	var out domain.Inject
	for _, f := range *fields {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "input":
			out |= domain.InjectInput
		case "result":
			out |= domain.InjectResult
		case "settlement":
			out |= domain.InjectSettlement
		case "all":
			out |= domain.InjectAll
		default:
			return domain.InjectDefault, fmt.Errorf("unknown inject field %q", f)
		}
	}
	return out, nil
}
