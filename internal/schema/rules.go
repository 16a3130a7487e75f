package schema

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Business rules sit on top of structural validation: cross-field
// invariants a schema cannot express. They run even when the structural
// pass found problems, so a caller gets one complete report.

func businessRuleMessages(doc map[string]any) []string {
	var msgs []string
	msgs = append(msgs, metaRuleMessages(childMap(doc, "meta"))...)
	msgs = append(msgs, campaignRuleMessages(childMap(doc, "campaign"))...)
	msgs = append(msgs, lineItemRuleMessages(doc)...)
	return msgs
}

func metaRuleMessages(meta map[string]any) []string {
	if meta == nil {
		return nil
	}

	var msgs []string
	if boolField(meta, "is_current") && boolField(meta, "is_archived") {
		msgs = append(msgs, "meta: plan cannot be both current and archived")
	}
	if parent := stringField(meta, "parent_id"); parent != "" && parent == stringField(meta, "id") {
		msgs = append(msgs, "meta.parent_id: plan cannot reference itself as parent")
	}
	return msgs
}

func campaignRuleMessages(campaign map[string]any) []string {
	if campaign == nil {
		return nil
	}

	var msgs []string
	if total, ok := campaignBudgetTotal(campaign); ok && total <= 0 {
		msgs = append(msgs, fmt.Sprintf("campaign.budget: total must be strictly positive, got %v", total))
	}

	start, startOK := parseDate(stringField(campaign, "start_date"))
	end, endOK := parseDate(stringField(campaign, "end_date"))
	if startOK && endOK && start.After(end) {
		msgs = append(msgs, fmt.Sprintf("campaign: start_date %s is after end_date %s",
			stringField(campaign, "start_date"), stringField(campaign, "end_date")))
	}
	return msgs
}

// campaignBudgetTotal reads the budget amount in either shape: the flat
// v1.0 number or the nested v2.0 object with a total field.
func campaignBudgetTotal(campaign map[string]any) (float64, bool) {
	if total, ok := numberField(campaign, "budget"); ok {
		return total, true
	}
	if budget := childMap(campaign, "budget"); budget != nil {
		return numberField(budget, "total")
	}
	return 0, false
}

func lineItemRuleMessages(doc map[string]any) []string {
	campaign := childMap(doc, "campaign")
	campaignStart, haveCampaignStart := parseDate(stringField(campaign, "start_date"))
	campaignEnd, haveCampaignEnd := parseDate(stringField(campaign, "end_date"))

	var msgs []string
	for i, raw := range childSlice(doc, "lineitems") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		label := lineItemLabel(i, item)

		start, startOK := parseDate(stringField(item, "start_date"))
		end, endOK := parseDate(stringField(item, "end_date"))
		if startOK && endOK && start.After(end) {
			msgs = append(msgs, fmt.Sprintf("%s: start_date %s is after end_date %s",
				label, stringField(item, "start_date"), stringField(item, "end_date")))
		}
		if startOK && haveCampaignStart && start.Before(campaignStart) {
			msgs = append(msgs, fmt.Sprintf("%s: starts before the campaign (%s < %s)",
				label, stringField(item, "start_date"), stringField(campaign, "start_date")))
		}
		if endOK && haveCampaignEnd && end.After(campaignEnd) {
			msgs = append(msgs, fmt.Sprintf("%s: ends after the campaign (%s > %s)",
				label, stringField(item, "end_date"), stringField(campaign, "end_date")))
		}

		if currency := stringField(item, "cost_currency"); currency != "" && !isCurrencyCode(currency) {
			msgs = append(msgs, fmt.Sprintf("%s: cost_currency must be a 3-letter code, got %q", label, currency))
		}

		msgs = append(msgs, customFieldMessages(label, item)...)
	}
	return msgs
}

// customFieldMessages enforces that *_custom companions are only populated
// when their main field is set to "other".
func customFieldMessages(label string, item map[string]any) []string {
	pairs := []struct {
		main   string
		custom string
	}{
		{"channel", "channel_custom"},
		{"kpi", "kpi_custom"},
	}

	var msgs []string
	for _, pair := range pairs {
		main := stringField(item, pair.main)
		custom := stringField(item, pair.custom)
		if custom != "" && main != "" && !strings.EqualFold(main, "other") {
			msgs = append(msgs, fmt.Sprintf("%s: %s is only allowed when %s is \"other\"",
				label, pair.custom, pair.main))
		}
	}
	return msgs
}

func lineItemLabel(index int, item map[string]any) string {
	if id := stringField(item, "id"); id != "" {
		return fmt.Sprintf("lineitems[%d] (%s)", index, id)
	}
	return fmt.Sprintf("lineitems[%d]", index)
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	return t, err == nil
}

func isCurrencyCode(value string) bool {
	if len(value) != 3 {
		return false
	}
	for _, r := range value {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

