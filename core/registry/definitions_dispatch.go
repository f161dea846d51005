package registry

import "github.com/huangsam/pitfeat/schema"

// Outcome predicates shared by label and officer outcome families.
const (
	unjustifiedRuling = "src.final_ruling_code = 'UNJ'"
	justifiedRuling   = "src.final_ruling_code = 'JUS'"
	sustainedFinding  = "src.final_finding_code = 'SUS'"
	notSustained      = "src.final_finding_code = 'NS'"
	preventable       = "src.preventable_flag"
	notPreventable    = "NOT src.preventable_flag"
	felony            = "src.felony_flag"
)

func dispatchDef(name string, family schema.Family, params schema.FeatureParams) schema.FeatureDefinition {
	return schema.FeatureDefinition{Name: name, Unit: schema.DispatchUnit, Family: family, Params: params}
}

func timePart(name, field string) schema.FeatureDefinition {
	return dispatchDef(name, schema.DispatchTimePartFamily, schema.FeatureParams{Field: field})
}

func dispatchAttribute(name, field string, categorical bool) schema.FeatureDefinition {
	def := dispatchDef(name, schema.DispatchAttributeFamily, schema.FeatureParams{Source: dispatches, Field: field})
	def.Categorical = categorical
	return def
}

func label(name, source, condition string) schema.FeatureDefinition {
	def := dispatchDef(name, schema.DispatchLabelFamily, schema.FeatureParams{Source: source, Condition: condition})
	def.Label = true
	return def
}

func recentArrests(name, interval, condition string) schema.FeatureDefinition {
	return dispatchDef(name, schema.RecentEventsFamily, schema.FeatureParams{
		Source:     arrests,
		TimeColumn: "arrest_datetime",
		Expr:       "COUNT(*)",
		Condition:  condition,
		Interval:   interval,
	})
}

func recentDispatchedOfficers(name, interval string) schema.FeatureDefinition {
	return dispatchDef(name, schema.RecentEventsFamily, schema.FeatureParams{
		Source:     eventsHub,
		TimeColumn: "event_datetime",
		Expr:       "COUNT(DISTINCT src.officer_id)",
		EventType:  dispatchEventType,
		Interval:   interval,
	})
}

func outcomeAverage(name, source, timeColumn, condition, interval string) schema.FeatureDefinition {
	return dispatchDef(name, schema.OfficersOutcomeAverageFamily, schema.FeatureParams{
		Source:     source,
		TimeColumn: timeColumn,
		Condition:  condition,
		Interval:   interval,
	})
}

func censusTract(name, field string) schema.FeatureDefinition {
	return dispatchDef(name, schema.CensusTractFamily, schema.FeatureParams{Source: censusTracts, Field: field})
}

func withinRadius(name, source, timeColumn, expr string, eventType, radiusM int, interval string) schema.FeatureDefinition {
	return dispatchDef(name, schema.EventsWithinRadiusFamily, schema.FeatureParams{
		Source:     source,
		TimeColumn: timeColumn,
		Expr:       expr,
		EventType:  eventType,
		RadiusM:    radiusM,
		Interval:   interval,
	})
}

func officerDispatchesRadius(name string, radiusM int, interval string) schema.FeatureDefinition {
	return dispatchDef(name, schema.OfficerDispatchesRadiusFamily, schema.FeatureParams{
		Source:     eventsHub,
		TimeColumn: "event_datetime",
		EventType:  dispatchEventType,
		RadiusM:    radiusM,
		Interval:   interval,
	})
}

func respondingOfficers(name, expr string) schema.FeatureDefinition {
	return dispatchDef(name, schema.RespondingOfficersFamily, schema.FeatureParams{
		Source:    officersHub,
		Expr:      expr,
		EventType: dispatchEventType,
	})
}

func dispatchDefinitions() []schema.FeatureDefinition {
	defs := []schema.FeatureDefinition{
		label("LabelSustained", allegations, sustainedFinding),
		label("LabelUnjustified", incidents, unjustifiedRuling),
		label("LabelPreventable", incidents, preventable),

		timePart("DispatchHour", "HOUR"),
		timePart("DispatchDayOfWeek", "DOW"),
		timePart("DispatchMonth", "MONTH"),
		timePart("DispatchYearQuarter", "QUARTER"),
		timePart("DispatchYear", "YEAR"),
		timePart("DispatchMinute", "MINUTE"),

		dispatchAttribute("OriginalPriority", "dispatch_original_priority", false),
		dispatchAttribute("DispatchType", "dispatch_category", true),
		dispatchAttribute("DispatchSubType", "dispatch_subcategory", true),

		dispatchDef("NumberOfUnitsAssigned", schema.UnitsAssignedFamily, schema.FeatureParams{
			Source:    eventsHub,
			Expr:      "COUNT(DISTINCT src.unit_id)",
			EventType: dispatchEventType,
		}),

		recentArrests("ArrestsInPast1Hour", "1 hour", ""),
		recentArrests("ArrestsInPast6Hours", "6 hours", ""),
		recentArrests("ArrestsInPast12Hours", "12 hours", ""),
		recentArrests("ArrestsInPast24Hours", "24 hours", ""),
		recentArrests("ArrestsInPast48Hours", "48 hours", ""),
		recentArrests("ArrestsInPastWeek", "1 week", ""),
		recentArrests("FelonyArrestsInPast1Hour", "1 hour", felony),
		recentArrests("FelonyArrestsInPast6Hours", "6 hours", felony),
		recentArrests("FelonyArrestsInPast12Hours", "12 hours", felony),
		recentArrests("FelonyArrestsInPast24Hours", "24 hours", felony),
		recentArrests("FelonyArrestsInPast48Hours", "48 hours", felony),
		recentArrests("FelonyArrestsInPastWeek", "1 week", felony),
		recentDispatchedOfficers("OfficersDispatchedInPast1Minute", "1 minute"),
		recentDispatchedOfficers("OfficersDispatchedInPast15Minutes", "15 minutes"),
		recentDispatchedOfficers("OfficersDispatchedInPast30Minutes", "30 minutes"),
		recentDispatchedOfficers("OfficersDispatchedInPast1Hour", "1 hour"),
	}

	defs = append(defs, outcomeAverages()...)

	defs = append(defs,
		censusTract("MedianAgeInCT", "median_age"),
		censusTract("MedianAgeOfMenInCT", "median_age_men"),
		censusTract("MedianAgeOfWomenInCT", "median_age_women"),
		censusTract("UnweightedSampleCountOfPopulationInCT", "unweighted_sample_population"),
		censusTract("UnweightedSampleCountOfHousingUnitsInCT", "unweighted_sample_housing_units"),
		censusTract("PercentageWomenInCT", "pct_women"),
		censusTract("PercentageMenInCT", "pct_men"),
		censusTract("PercentageWhiteInCT", "pct_white"),
		censusTract("PercentageBlackInCT", "pct_black"),
		censusTract("PercentageAsianInCT", "pct_asian"),
		censusTract("PercentageHispanicInCT", "pct_hispanic"),
		censusTract("PercentageForeignBornInCT", "pct_foreign_born"),
		censusTract("ProportionOfPopulationUnderAge18InCT", "prop_under_18"),
		censusTract("ProportionOfPopulationEnrolledInSchoolInCT", "prop_enrolled_in_school"),
		censusTract("ProportionOfPopulationOver25WithLessThanHighSchoolEducationInCT", "prop_over_25_no_high_school"),
		censusTract("ProportionOfPopulationVeteransInCT", "prop_veterans"),
		censusTract("ProportionOfPopulationWithIncomeBelowPovertyLevelInPastYearInCT", "prop_below_poverty"),
		censusTract("ProportionOfPopulationWithIncomeInPast12MonthsBelow45000DollarsInCT", "prop_income_below_45000"),
		censusTract("MedianIncomeInPast12MonthsInCT", "median_income"),
		censusTract("MedianHouseholdIncomeInPast12MonthsInCT", "median_household_income"),
		censusTract("ProportionOfHouseholdsReceivingAssistanceOrFoodStampsInCT", "prop_households_assistance"),
		censusTract("ProportionOfHousingUnitsVacantInCT", "prop_housing_vacant"),
		censusTract("ProportionOfHousingUnitsOccupiedByOwnerInCT", "prop_housing_owner_occupied"),
		censusTract("MedianYearStructureBuildInCT", "median_year_built"),
		censusTract("MedianYearRenterMovedIntoHousingUnitInCT", "median_year_renter_moved_in"),
		censusTract("MedianYearOwnerMovedIntoHousingUnitInCT", "median_year_owner_moved_in"),
		censusTract("MedianGrossRentInCT", "median_gross_rent"),
		censusTract("MedianPropertyValueInCT", "median_property_value"),
		censusTract("LowerQuartilePropertyValueInCT", "lower_quartile_property_value"),
		censusTract("UpperQuartilePropertyValueInCT", "upper_quartile_property_value"),
		censusTract("AverageHouseholdSizeInCT", "avg_household_size"),
		censusTract("ProportionOfChildrenUnder18LivingWithSingleParentInCT", "prop_children_single_parent"),
		censusTract("ProportionOfChildrenUnder18LivingWithMotherInCT", "prop_children_with_mother"),
		censusTract("ProportionOfPopulationNeverMarriedInCT", "prop_never_married"),
		censusTract("ProportionOfPopulationDivorcedOrSeparatedInCT", "prop_divorced_or_separated"),
		censusTract("ProportionOfPopulationWithoutHealthInsuranceInCT", "prop_no_health_insurance"),
		censusTract("ProportionOfWomenWhoGaveBirthInPast12MonthsInCT", "prop_women_birth_past_year"),

		withinRadius("DispatchesWithin1kmRadiusInPast15Minutes", eventsHub, "event_datetime", "COUNT(DISTINCT src.dispatch_id)", dispatchEventType, 1000, "15 minutes"),
		withinRadius("DispatchesWithin1kmRadiusInPast30Minutes", eventsHub, "event_datetime", "COUNT(DISTINCT src.dispatch_id)", dispatchEventType, 1000, "30 minutes"),
		withinRadius("DispatchesWithin1kmRadiusInPast1Hour", eventsHub, "event_datetime", "COUNT(DISTINCT src.dispatch_id)", dispatchEventType, 1000, "1 hour"),
		withinRadius("ArrestsWithin1kmRadiusInPast6Hours", arrests, "arrest_datetime", "COUNT(*)", 0, 1000, "6 hours"),
		withinRadius("ArrestsWithin1kmRadiusInPast12Hours", arrests, "arrest_datetime", "COUNT(*)", 0, 1000, "12 hours"),

		// The 1-hour key keeps its historical word order; downstream configs use it verbatim.
		officerDispatchesRadius("AverageOfficerDispatchesWithin100mRadiusIn1PastHour", 100, "1 hour"),
		officerDispatchesRadius("AverageOfficerDispatchesWithin100mRadiusInPast6Hours", 100, "6 hours"),
		officerDispatchesRadius("AverageOfficerDispatchesWithin100mRadiusInPast48Hours", 100, "48 hours"),

		respondingOfficers("AverageAgeOfRespondingOfficers",
			"AVG(EXTRACT(YEAR FROM age(feat.fake_today, o.date_of_birth)))"),
		respondingOfficers("LowestEducationLevelAmongRespondingOfficers", "MIN(o.education_level_code)"),
		respondingOfficers("HighestEducationLevelAmongRespondingOfficers", "MAX(o.education_level_code)"),
		respondingOfficers("ProportionOfRespondingOfficersWithFourYearCollegeDegreeOrHigher",
			"AVG(CASE WHEN o.education_level_code >= 4 THEN 1 ELSE 0 END)"),
		respondingOfficers("ProportionOfRespondingOfficersMale",
			"AVG(CASE WHEN o.gender_code = 'M' THEN 1 ELSE 0 END)"),
		respondingOfficers("ProportionOfRespondingOfficersDivorcedOrSeparated",
			"AVG(CASE WHEN o.marital_status_code IN ('D', 'S') THEN 1 ELSE 0 END)"),
		respondingOfficers("ProportionOfRespondingOfficersMarried",
			"AVG(CASE WHEN o.marital_status_code = 'M' THEN 1 ELSE 0 END)"),
	)
	return defs
}

// outcomeAverages expands the officers-dispatched outcome averages over their periods.
func outcomeAverages() []schema.FeatureDefinition {
	type outcome struct {
		name, source, timeColumn, condition string
	}
	outcomes := []outcome{
		{"UnjustifiedIncidents", incidents, "incident_datetime", unjustifiedRuling},
		{"JustifiedIncidents", incidents, "incident_datetime", justifiedRuling},
		{"SustainedAllegations", allegations, "allegation_datetime", sustainedFinding},
		{"UnsustainedAllegations", allegations, "allegation_datetime", notSustained},
		{"PreventableIncidents", incidents, "incident_datetime", preventable},
		{"NonPreventableIncidents", incidents, "incident_datetime", notPreventable},
	}
	periods := []struct{ suffix, interval string }{
		{"InPastYear", "1 year"},
		{"InPast6Months", "6 months"},
		{"InPast1Month", "1 month"},
	}

	var defs []schema.FeatureDefinition
	for _, p := range periods {
		for _, o := range outcomes {
			interval := p.interval
			// The 1-month unjustified key has always computed over 6 months.
			if o.name == "UnjustifiedIncidents" && p.suffix == "InPast1Month" {
				interval = "6 months"
			}
			name := "OfficersDispatchedAverage" + o.name + p.suffix
			defs = append(defs, outcomeAverage(name, o.source, o.timeColumn, o.condition, interval))
		}
	}
	return defs
}
