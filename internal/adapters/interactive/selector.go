package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/domain/models"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectDeployment selects a deployment from a list
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	if len(deployments) == 0 {
		return nil, fmt.Errorf("no deployments provided for selection")
	}
	if len(deployments) == 1 {
		return deployments[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	options := formatDeploymentOptions(deployments)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher:  createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return deployments[index], nil
}

// formatDeploymentOptions creates display strings for deployment selection
func formatDeploymentOptions(deployments []*models.Deployment) []string {
	options := make([]string, len(deployments))
	for i, dep := range deployments {
		network := dep.Network
		if network == "" {
			network = fmt.Sprintf("chain %d", dep.ChainID)
		}
		options[i] = fmt.Sprintf("%s %s (%s)",
			color.New(color.FgWhite, color.Bold).Sprint(dep.ContractName),
			color.New(color.FgBlue).Sprint(dep.Address),
			network)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// ConfirmAdapter asks yes/no questions on the terminal
type ConfirmAdapter struct {
	config *config.RuntimeConfig
}

// NewConfirmAdapter creates a new confirmation prompt
func NewConfirmAdapter(cfg *config.RuntimeConfig) *ConfirmAdapter {
	return &ConfirmAdapter{config: cfg}
}

// Confirm asks the user to approve an action. Non-interactive runs approve.
func (c *ConfirmAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}

	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return true, nil
}

var (
	_ usecase.DeploymentSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer          = (*ConfirmAdapter)(nil)
)
