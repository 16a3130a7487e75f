package schema

import "github.com/google/uuid"

// registerBundledSteps wires the migration chain shipped with this build.
// A registration failure here means the bundled chain disagrees with the
// supported version window, which is a build defect, not a runtime
// condition.
func registerBundledSteps(m *Migrator) {
	mustRegister(m, MustParseVersion("1.0"), MustParseVersion("2.0"), migrate10To20)
}

func mustRegister(m *Migrator, from, to Version, fn StepFunc) {
	if err := m.RegisterStep(from, to, fn); err != nil {
		panic(err)
	}
}

// migrate10To20 reshapes a 1.0 media plan into the 2.0 structure:
//
//   - meta.created_by is renamed to meta.created_by_name
//   - meta.id becomes required; plans without one get a generated UUID
//   - the flat campaign.budget number moves to campaign.budget.total
//   - campaign audience_* scalars fold into a campaign.audience object
//   - campaign.comments is dropped (no 2.0 equivalent)
func migrate10To20(doc map[string]any) (map[string]any, error) {
	out := copyDocument(doc)

	meta := childMap(out, "meta")
	if meta == nil {
		meta = make(map[string]any)
		out["meta"] = meta
	}
	if v, ok := meta["created_by"]; ok {
		meta["created_by_name"] = v
		delete(meta, "created_by")
	}
	if stringField(meta, "id") == "" {
		meta["id"] = uuid.NewString()
	}

	if campaign := childMap(out, "campaign"); campaign != nil {
		if total, ok := numberField(campaign, "budget"); ok {
			campaign["budget"] = map[string]any{"total": total}
		}
		migrateAudienceFields(campaign)
		delete(campaign, "comments")
	}

	return out, nil
}

// migrateAudienceFields folds the 1.0 audience_* scalars into the nested
// 2.0 audience object. The object is only created when at least one field
// carried data.
func migrateAudienceFields(campaign map[string]any) {
	renames := []struct {
		from string
		to   string
	}{
		{"audience_age_start", "age_start"},
		{"audience_age_end", "age_end"},
		{"audience_gender", "gender"},
	}

	audience := make(map[string]any)
	for _, r := range renames {
		if v, ok := campaign[r.from]; ok {
			if v != nil {
				audience[r.to] = v
			}
			delete(campaign, r.from)
		}
	}
	if len(audience) > 0 {
		campaign["audience"] = audience
	}
}
