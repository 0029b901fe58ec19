// Package config loads the three declarative inputs of AgentRelay from YAML:
// handoff rule records, derived context variable specs and journey graphs.
// Loading is lenient at the smallest possible granularity: a malformed rule,
// trigger or journey is skipped and reported as a diagnostic string, never
// failing the surrounding batch.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentrelay/handoff"
	"github.com/hupe1980/agentrelay/journey"
	"github.com/hupe1980/agentrelay/state"
)

// RuleConfig is one declared handoff rule record.
type RuleConfig struct {
	SourceAgent    string `yaml:"source_agent"`
	TargetAgent    string `yaml:"target_agent"`
	HandoffType    string `yaml:"handoff_type"`
	Condition      string `yaml:"condition"`
	ConditionType  string `yaml:"condition_type"`
	ConditionScope string `yaml:"condition_scope"`
}

// MatchConfig holds the ORed pattern alternatives of an agent-text trigger.
type MatchConfig struct {
	Equals   string `yaml:"equals"`
	Contains string `yaml:"contains"`
	Regex    string `yaml:"regex"`
}

// TriggerConfig is one declared trigger of a context variable.
type TriggerConfig struct {
	Type               string      `yaml:"type"` // agent_text or ui_response
	Agent              string      `yaml:"agent"`
	Match              MatchConfig `yaml:"match"`
	Value              string      `yaml:"value"`
	RequiresPriorValue *string     `yaml:"requires_prior_value"`
	UIHidden           bool        `yaml:"ui_hidden"`
	Tool               string      `yaml:"tool"`
	ResponseKey        string      `yaml:"response_key"`
}

// SourceConfig declares where a variable's value comes from. Only "state"
// (derived at runtime) variables are handled by the context engine.
type SourceConfig struct {
	Type string `yaml:"type"`
}

// VariableConfig is one declared context variable.
type VariableConfig struct {
	Default  any             `yaml:"default"`
	Source   SourceConfig    `yaml:"source"`
	Triggers []TriggerConfig `yaml:"triggers"`
}

// StepEntry is one journey step: either a single template name or a list of
// template names denoting a parallel group.
type StepEntry []string

// UnmarshalYAML accepts a scalar (single template) or a sequence (parallel
// group).
func (s *StepEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*s = StepEntry{single}
		return nil
	case yaml.SequenceNode:
		var group []string
		if err := node.Decode(&group); err != nil {
			return err
		}
		*s = StepEntry(group)
		return nil
	default:
		return fmt.Errorf("journey step must be a template name or a list of template names (line %d)", node.Line)
	}
}

// JourneyConfig is one declared journey graph.
type JourneyConfig struct {
	ID    string      `yaml:"id"`
	Steps []StepEntry `yaml:"steps"`
}

// Config aggregates the declarative inputs of one deployment.
type Config struct {
	Handoffs  []RuleConfig              `yaml:"handoffs"`
	Variables map[string]VariableConfig `yaml:"context_variables"`
	Journeys  []JourneyConfig           `yaml:"journeys"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Rules converts the declared handoff records into compiler rules. Malformed
// records (missing agents, unknown handoff type) are skipped and reported.
func (c *Config) Rules() ([]handoff.Rule, []string) {
	var rules []handoff.Rule
	var diags []string
	for i, rc := range c.Handoffs {
		if strings.TrimSpace(rc.SourceAgent) == "" || strings.TrimSpace(rc.TargetAgent) == "" {
			diags = append(diags, fmt.Sprintf("handoff %d: missing source or target agent", i))
			continue
		}
		handoffType, ok := handoff.ParseHandoffType(rc.HandoffType)
		if !ok {
			diags = append(diags, fmt.Sprintf("handoff %d: unknown handoff_type %q", i, rc.HandoffType))
			continue
		}
		rules = append(rules, handoff.Rule{
			SourceAgent:   rc.SourceAgent,
			TargetAgent:   rc.TargetAgent,
			Type:          handoffType,
			ConditionType: handoff.ParseConditionType(rc.ConditionType),
			Condition:     rc.Condition,
			Scope:         handoff.ParseConditionScope(rc.ConditionScope),
		})
	}
	return rules, diags
}

// VariableSpecs converts the declared context variables into engine specs.
// Variable names are sorted for deterministic seeding order; trigger order
// within a variable is preserved as declared. Non-state variables and
// malformed triggers are skipped and reported.
func (c *Config) VariableSpecs() ([]state.VariableSpec, []string) {
	var diags []string
	names := make([]string, 0, len(c.Variables))
	for name := range c.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	var specs []state.VariableSpec
	for _, name := range names {
		vc := c.Variables[name]
		if vc.Source.Type != "" && vc.Source.Type != "state" {
			diags = append(diags, fmt.Sprintf("variable %s: unsupported source type %q", name, vc.Source.Type))
			continue
		}
		spec := state.VariableSpec{Name: name, Default: vc.Default}
		for j, tc := range vc.Triggers {
			trigger, err := convertTrigger(tc)
			if err != nil {
				diags = append(diags, fmt.Sprintf("variable %s trigger %d: %v", name, j, err))
				continue
			}
			spec.Triggers = append(spec.Triggers, trigger)
		}
		specs = append(specs, spec)
	}
	return specs, diags
}

func convertTrigger(tc TriggerConfig) (state.Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(tc.Type)) {
	case "agent_text":
		return state.Trigger{
			Type:               state.TriggerAgentText,
			Agent:              tc.Agent,
			Match:              state.Match{Equals: tc.Match.Equals, Contains: tc.Match.Contains, Regex: tc.Match.Regex},
			Value:              tc.Value,
			RequiresPriorValue: tc.RequiresPriorValue,
			HideMessage:        tc.UIHidden,
		}, nil
	case "ui_response":
		return state.Trigger{
			Type:        state.TriggerUIResponse,
			Tool:        tc.Tool,
			ResponseKey: tc.ResponseKey,
		}, nil
	default:
		return state.Trigger{}, fmt.Errorf("unknown trigger type %q", tc.Type)
	}
}

// JourneyGraphs converts the declared journeys. Invalid journeys are skipped
// and reported.
func (c *Config) JourneyGraphs() ([]*journey.Journey, []string) {
	var journeys []*journey.Journey
	var diags []string
	for i, jc := range c.Journeys {
		steps := make([]journey.StepGroup, 0, len(jc.Steps))
		for _, entry := range jc.Steps {
			steps = append(steps, journey.StepGroup(entry))
		}
		j := &journey.Journey{ID: jc.ID, Steps: steps}
		if err := j.Validate(); err != nil {
			diags = append(diags, fmt.Sprintf("journey %d: %v", i, err))
			continue
		}
		journeys = append(journeys, j)
	}
	return journeys, diags
}
