package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/authority"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/config"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/registry"
)

// buildOracle combines the static authority list and the authority expression.
// With neither configured nobody can create groups.
func buildOracle(cfg config.Config, logger *slog.Logger) (registry.AuthorityOracle, error) {
	var oracles authority.AnyOf

	static := authority.NewStatic(authority.ParseList(strings.Join(cfg.Authorities, ","))...)
	if static.Len() > 0 {
		oracles = append(oracles, static)
	}

	if cfg.AuthorityExpr != "" {
		expr, err := authority.Compile(cfg.AuthorityExpr, logger)
		if err != nil {
			return nil, errors.Join(errors.New("REGISTRY_AUTHORITY_EXPR"), err)
		}
		oracles = append(oracles, expr)
	}

	if len(oracles) == 0 {
		logger.Warn("No authorities configured; group creation is disabled")
		return authority.Deny{}, nil
	}
	logger.Info("Authority oracle configured", "static", static.Len(), "expression", cfg.AuthorityExpr)
	return oracles, nil
}
