package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.CacheManager
	newClient ClientFactory
	now       func() time.Time
}

// analysisResult is the payload of analyze_repository.
type analysisResult struct {
	Cached         bool                        `json:"cached"`
	Interpretation schema.HealthInterpretation `json:"interpretation"`
	Metrics        *schema.RepositoryMetrics   `json:"metrics"`
}

// interpretationResult is the payload of interpret_health_score.
type interpretationResult struct {
	Score int `json:"score"`
	schema.HealthInterpretation
}

func (h *toolHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *toolHandler) snapshots() contract.SnapshotStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetSnapshotStore()
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo, err := contract.ParseRepoArgs([]string{request.GetString("repository", "")})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid repository: %v", err)), nil
	}
	cfg := h.baseCfg.CloneWithRepo(owner, repo)

	client, err := h.newClient(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("client setup failed: %v", err)), nil
	}

	metrics, cached, err := iocache.CachedAnalysis(h.snapshots(), owner, repo, h.clock(), request.GetBool("refresh", false),
		func() (*schema.RepositoryMetrics, error) {
			return core.AnalyzeRepositoryWithOptions(ctx, client, owner, repo, core.AnalysisOptions{
				ReleaseLimit: cfg.ReleaseLimit,
				Now:          h.now,
			})
		})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %s", contract.UserMessage(err))), nil
	}

	jsonData, _ := json.MarshalIndent(analysisResult{
		Cached:         cached,
		Interpretation: core.InterpretHealthScore(metrics.HealthScore),
		Metrics:        metrics,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleInterpretHealthScore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score := request.GetInt("score", -1)
	if score < 0 || score > 100 {
		return mcp.NewToolResultError(fmt.Sprintf("score must be between 0 and 100 (received %d)", score)), nil
	}

	jsonData, _ := json.MarshalIndent(interpretationResult{
		Score:                score,
		HealthInterpretation: core.InterpretHealthScore(score),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
