package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"muddy/internal/model"
	"muddy/pkg/mud"
	"muddy/pkg/wellknown"
)

// Builder turns rules into a MUD document. ACLs for different rules are
// built concurrently; output order always follows rule order.
type Builder struct {
	Rules   []model.Rule
	MUDName string
	Workers int

	// NewName supplies a MUD name when MUDName is empty.
	NewName func() string
	// Now is the clock for the default last-update.
	Now func() time.Time
}

func NewBuilder(rules []model.Rule, mudName string) *Builder {
	return &Builder{
		Rules:   rules,
		MUDName: mudName,
		Workers: runtime.NumCPU(),
		Now:     time.Now,
	}
}

// Resolve fills rule defaults and expands a well-known service into a
// protocol and remote port.
func Resolve(rule model.Rule) (mud.ACLParams, error) {
	protocol := rule.Protocol
	remotePorts := rule.RemotePorts

	if rule.Service != "" {
		lookup := protocol
		if lookup == 0 {
			lookup = mud.Any
		}
		entry, ok := wellknown.Lookup(rule.Service, lookup)
		if !ok {
			return mud.ACLParams{}, fmt.Errorf("unknown service %q for protocol %s", rule.Service, lookup)
		}
		if protocol == 0 {
			protocol = entry.Protocol
		}
		if len(remotePorts) == 0 {
			remotePorts = []int{entry.Port}
		}
	}
	if protocol == 0 {
		protocol = mud.Any
	}
	ipVersion := rule.IPVersion
	if ipVersion == 0 {
		ipVersion = mud.Both
	}

	return mud.ACLParams{
		Name: rule.Name,
		ACEParams: mud.ACEParams{
			Direction:   rule.Direction,
			Target:      rule.Target,
			Protocol:    protocol,
			MatchTypes:  append([]mud.MatchType(nil), rule.MatchTypes...),
			Initiated:   rule.Initiated,
			IPVersion:   ipVersion,
			LocalPorts:  append([]int(nil), rule.LocalPorts...),
			RemotePorts: append([]int(nil), remotePorts...),
		},
	}, nil
}

func describe(position int, rule model.Rule) string {
	if rule.Source != "" {
		return fmt.Sprintf("rule %d (%s)", position, rule.Source)
	}
	return fmt.Sprintf("rule %d", position)
}

// Build assembles the document. When several rules fail, the error of the
// earliest one is returned.
func (b *Builder) Build(ctx context.Context, support mud.SupportInfoConfig) (*mud.Document, error) {
	startTime := time.Now()

	mudName := b.MUDName
	if mudName == "" && b.NewName != nil {
		mudName = b.NewName()
	}
	if len(b.Rules) == 0 {
		slog.Warn("No rules to build, document will have no ACLs")
	}

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([][]mud.ACL, len(b.Rules))
	errs := make([]error, len(b.Rules))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, rule := range b.Rules {
		i, rule := i, rule
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			params, err := Resolve(rule)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", describe(i+1, rule), err)
				return nil
			}
			acls, err := mud.BuildACLs(params.WithBaseName(mudName, i+1))
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", describe(i+1, rule), err)
				return nil
			}
			slog.Debug("Built ACLs for rule", "rule", i+1, "source", rule.Source, "acls", len(acls))
			results[i] = acls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var acls []mud.ACL
	for _, built := range results {
		acls = append(acls, built...)
	}
	policies, err := mud.PoliciesFor(acls)
	if err != nil {
		return nil, err
	}

	now := b.Now
	if now == nil {
		now = time.Now
	}
	info, err := mud.NewSupportInfo(support, now)
	if err != nil {
		return nil, err
	}
	doc, err := mud.NewDocument(info, policies, acls)
	if err != nil {
		return nil, err
	}

	slog.Info("MUD document built", "mud_name", mudName, "rules", len(b.Rules), "acls", len(acls), "policies", len(policies), "duration", time.Since(startTime))
	return doc, nil
}
