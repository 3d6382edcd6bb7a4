package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// scoreFit measures how well a company matches the ICP's firmographic
// criteria. Without an ICP every company is a neutral 50.
func scoreFit(company *contracts.CompanySnapshot, icp *contracts.ICPProfile) (int, contracts.ComponentMap) {
	var components contracts.ComponentMap

	if icp == nil {
		components.Add("default", contracts.ScoreComponent{
			Points: 50,
			Reason: "no ICP profile, neutral fit",
		})
		return 50, components
	}
	if company == nil {
		return 0, components
	}

	filters := icp.Filters

	// 1. Industry match
	if len(filters.Industries) > 0 && company.Industry != "" {
		points, reason := industryPoints(company.Industry, filters.Industries, filters.ExcludedIndustries)
		if points != 0 {
			components.Add("industry", contracts.ScoreComponent{Points: points, Reason: reason})
		}
	}

	// 2. Company size
	if (filters.EmployeeMin != nil || filters.EmployeeMax != nil) && company.EmployeeCount != nil {
		points, reason := sizePoints(*company.EmployeeCount, filters.EmployeeMin, filters.EmployeeMax)
		if points != 0 {
			components.Add("company_size", contracts.ScoreComponent{Points: points, Reason: reason})
		}
	}

	// 3. Technology profile
	if len(filters.Tech.MustHave) > 0 {
		techComponents(&components, company.TechNameSet(), filters.Tech)
	}

	// 4. Geography
	if (len(filters.Countries) > 0 || len(filters.ExcludedCountries) > 0) && company.Location() != "" {
		points, reason := geoPoints(company.Location(), filters.Countries, filters.ExcludedCountries)
		if points != 0 {
			components.Add("geography", contracts.ScoreComponent{Points: points, Reason: reason})
		}
	}

	// 5. Funding stage
	if len(filters.FundingStages) > 0 && company.FundingStage != "" {
		for _, stage := range filters.FundingStages {
			if stage == company.FundingStage {
				components.Add("funding_stage", contracts.ScoreComponent{
					Points: 15,
					Reason: fmt.Sprintf("funding stage %s matches target", company.FundingStage),
				})
				break
			}
		}
	}

	return clampScore(components.Sum()), components
}

// industryPoints rewards target matches first, then penalizes
// exclusions; anything else is a partial match
func industryPoints(industry string, targets, excluded []string) (int, string) {
	c := strings.ToLower(strings.TrimSpace(industry))

	for _, target := range targets {
		t := strings.ToLower(strings.TrimSpace(target))
		if t == "" {
			continue
		}
		if strings.Contains(c, t) || strings.Contains(t, c) {
			return 25, fmt.Sprintf("industry %q matches target %q", industry, target)
		}
	}

	for _, ex := range excluded {
		if c == strings.ToLower(strings.TrimSpace(ex)) {
			return -30, fmt.Sprintf("industry %q is excluded", industry)
		}
	}

	return 10, fmt.Sprintf("industry %q is a partial match", industry)
}

// sizePoints rewards the target range fully, scales below it and gives
// a token above it
func sizePoints(count int, min, max *int) (int, string) {
	if min != nil && count < *min {
		if *min <= 0 {
			return 0, ""
		}
		points := int(math.Round(15 * float64(count) / float64(*min)))
		return points, fmt.Sprintf("%d employees, below target minimum %d", count, *min)
	}
	if max != nil && count > *max {
		return 5, fmt.Sprintf("%d employees, above target maximum %d", count, *max)
	}
	return 25, fmt.Sprintf("%d employees within target range", count)
}

func techComponents(components *contracts.ComponentMap, stack map[string]struct{}, req contracts.TechRequirements) {
	countMatches := func(names []string) int {
		n := 0
		for _, name := range names {
			if _, ok := stack[strings.ToLower(strings.TrimSpace(name))]; ok {
				n++
			}
		}
		return n
	}

	if m := countMatches(req.MustHave); m > 0 {
		points := 10 + m*5
		if points > 20 {
			points = 20
		}
		components.Add("tech_must_have", contracts.ScoreComponent{
			Points: points,
			Reason: fmt.Sprintf("%d required technologies in stack", m),
		})
	}

	if m := countMatches(req.NiceHave); m > 0 {
		points := m * 3
		if points > 10 {
			points = 10
		}
		components.Add("tech_nice_to_have", contracts.ScoreComponent{
			Points: points,
			Reason: fmt.Sprintf("%d nice-to-have technologies in stack", m),
		})
	}

	if m := countMatches(req.Avoid); m > 0 {
		points := m * 10
		if points > 20 {
			points = 20
		}
		components.Add("tech_avoid", contracts.ScoreComponent{
			Points: -points,
			Reason: fmt.Sprintf("%d avoided technologies in stack", m),
		})
	}
}

// geoPoints rewards target countries and penalizes excluded ones;
// anywhere else is neutral
func geoPoints(location string, countries, excluded []string) (int, string) {
	loc := strings.ToUpper(strings.TrimSpace(location))
	for _, country := range countries {
		if loc == strings.ToUpper(strings.TrimSpace(country)) {
			return 15, fmt.Sprintf("located in target country %s", location)
		}
	}
	for _, country := range excluded {
		if loc == strings.ToUpper(strings.TrimSpace(country)) {
			return -20, fmt.Sprintf("located in excluded country %s", location)
		}
	}
	return 0, ""
}
