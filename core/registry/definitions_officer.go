package registry

import "github.com/huangsam/pitfeat/schema"

// Source relations read by feature families.
const (
	eventsHub      = "staging.events_hub"
	officersHub    = "staging.officers_hub"
	dispatches     = "staging.dispatches"
	arrests        = "staging.arrests"
	incidents      = "staging.incidents"
	allegations    = "staging.allegations"
	officerShifts  = "staging.officer_shifts"
	maritalHistory = "staging.officer_marital_history"
	censusTracts   = "staging.census_tracts"
)

// dispatchEventType is the event_type_code of a dispatch event in events_hub.
const dispatchEventType = 5

func officerAttribute(name, expr string) schema.FeatureDefinition {
	return schema.FeatureDefinition{
		Name:   name,
		Unit:   schema.OfficerUnit,
		Family: schema.OfficerAttributeFamily,
		Params: schema.FeatureParams{Source: officersHub, Expr: expr},
	}
}

// officerAggregate counts or aggregates source rows per officer over a window in
// years. A zero windowYears uses the window decoded from the name.
func officerAggregate(name, source, timeColumn, expr, condition string, windowYears int) schema.FeatureDefinition {
	return schema.FeatureDefinition{
		Name:   name,
		Unit:   schema.OfficerUnit,
		Family: schema.OfficerAggregateFamily,
		Params: schema.FeatureParams{
			Source:      source,
			TimeColumn:  timeColumn,
			Expr:        expr,
			Condition:   condition,
			WindowYears: windowYears,
		},
	}
}

func timeGated(name, source, timeColumn, expr string) schema.FeatureDefinition {
	return schema.FeatureDefinition{
		Name:   name,
		Unit:   schema.OfficerUnit,
		Family: schema.TimeGatedFamily,
		Params: schema.FeatureParams{Source: source, TimeColumn: timeColumn, Expr: expr},
	}
}

func officerDefinitions() []schema.FeatureDefinition {
	return []schema.FeatureDefinition{
		officerAttribute("AcademyScore", "o.academy_score"),
		officerAggregate("ArrestCount1Yr", arrests, "arrest_datetime", "COUNT(*)", "", 1),
		officerAggregate("ArrestCountCareer", arrests, "arrest_datetime", "COUNT(*)", "", 0),
		officerAggregate("DivorceCount", maritalHistory, "status_date", "COUNT(*)", "src.marital_status_code = 'D'", 0),
		officerAggregate("SustainedRuleViolations", allegations, "allegation_datetime", "COUNT(*)",
			"src.final_finding_code = 'SUS' AND src.allegation_type_code = 'RULE'", 0),
		officerAggregate("IncidentCount", incidents, "incident_datetime", "COUNT(*)", "", 0),
		officerAggregate("MeanHoursPerShift", officerShifts, "shift_start",
			"AVG(EXTRACT(EPOCH FROM src.shift_end - src.shift_start) / 3600)", "", 0),
		officerAttribute("MilesFromPost", "o.miles_from_post"),
		officerAttribute("OfficerGender", "CASE WHEN o.gender_code = 'M' THEN 1 ELSE 0 END"),
		timeGated("TimeGatedDummyFeature", eventsHub, "event_datetime", "COUNT(*)"),
		officerAttribute("OfficerRace", "o.race_code"),
		officerAggregate("AllAllegations", allegations, "allegation_datetime", "COUNT(*)", "", 0),
	}
}
