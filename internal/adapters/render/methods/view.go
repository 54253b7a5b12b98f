package methods

import (
	"fmt"
	"strings"

	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Descriptions adds the method description under each signature.
	Descriptions bool
}

func renderMethods(methods []domain.MethodDescriptor, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Finance API methods"),
		s.header.Render(fmt.Sprintf("methods: %d", len(methods))),
	}

	if len(methods) == 0 {
		lines = append(lines, s.empty.Render("No methods in this category."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, group := range groupByCategory(methods) {
		lines = append(lines, s.section.Render(renderGroup(group, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type categoryGroup struct {
	category domain.Category
	methods  []domain.MethodDescriptor
}

// groupByCategory keeps the display order of domain.Categories and the
// manifest order within each category.
func groupByCategory(methods []domain.MethodDescriptor) []categoryGroup {
	byCategory := map[domain.Category][]domain.MethodDescriptor{}
	for _, method := range methods {
		byCategory[method.Category] = append(byCategory[method.Category], method)
	}

	groups := make([]categoryGroup, 0, len(byCategory))
	for _, category := range domain.Categories {
		if len(byCategory[category]) == 0 {
			continue
		}
		groups = append(groups, categoryGroup{category: category, methods: byCategory[category]})
	}
	return groups
}

func renderGroup(group categoryGroup, opts RenderOptions, s styles) string {
	parts := []string{s.category.Render(string(group.category))}
	for _, method := range group.methods {
		parts = append(parts, signature(method, s))
		if opts.Descriptions && method.Description != "" {
			parts = append(parts, s.detail.Render(method.Description))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func signature(method domain.MethodDescriptor, s styles) string {
	params := make([]string, 0, len(method.Params))
	for _, param := range method.Params {
		if param.Required {
			params = append(params, s.param.Render(param.Name))
			continue
		}
		params = append(params, s.optional.Render(param.Name+"?"))
	}

	line := s.method.Render(method.Name) + "(" + strings.Join(params, ", ") + ")"
	if method.Returns.Type != "" && method.Returns.Type != "void" {
		line += " " + s.returns.Render("-> "+method.Returns.Type)
	}
	return line
}

func renderSummary(summary application.CatalogSummary, s styles) string {
	lines := []string{
		s.title.Render("Finance API methods"),
		s.header.Render(fmt.Sprintf("methods: %d", summary.Total)),
	}

	width := 0
	for _, entry := range summary.Categories {
		width = max(width, len(entry.Category))
	}

	rows := make([]string, 0, len(summary.Categories))
	for _, entry := range summary.Categories {
		label := s.category.Render(fmt.Sprintf("%-*s", width, entry.Category))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, "  ", s.count.Render(fmt.Sprintf("%d", entry.Count))))
	}
	if len(rows) == 0 {
		rows = append(rows, s.empty.Render("No methods."))
	}

	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
