package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// The provider's catalog payload is not stable: field names and nesting have
// both been observed to change between deployments. Rather than pin a schema,
// the parser walks the document and recognizes a plan by probing an ordered
// list of candidate keys.

var (
	idKeys    = []string{"PRODUCT_ID", "ID", "PRODUCT_CODE", "DATAPLAN_ID"}
	priceKeys = []string{"PRODUCT_AMOUNT", "PRICE", "AMOUNT", "PRODUCT_PRICE"}
	nameKeys  = []string{"PRODUCT_NAME", "NAME", "PRODUCT", "PLAN_NAME"}
)

type rawPlan struct {
	ID    string
	Price string
	Name  string
}

type networkPlans struct {
	Name  string
	Plans []rawPlan
}

// parseCatalog extracts per-network plan lists from whatever shape the
// provider sent. Networks come back sorted so sync summaries are stable.
func parseCatalog(raw json.RawMessage) ([]networkPlans, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog is not a JSON object: %w", err)
	}

	// Some responses nest everything under MOBILE_NETWORK, some put the
	// networks at the top level.
	for key, val := range doc {
		if strings.EqualFold(key, "MOBILE_NETWORK") {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(val, &inner); err == nil {
				doc = inner
			}
			break
		}
	}

	var networks []networkPlans
	for name, val := range doc {
		plans := collectPlans(val)
		if len(plans) == 0 {
			continue
		}
		networks = append(networks, networkPlans{
			Name:  strings.ToLower(name),
			Plans: plans,
		})
	}

	if len(networks) == 0 {
		return nil, fmt.Errorf("no recognizable plans in catalog")
	}

	sort.Slice(networks, func(i, j int) bool { return networks[i].Name < networks[j].Name })
	return networks, nil
}

// collectPlans walks arrays and objects under a network node and keeps every
// object that yields both an id and a price.
func collectPlans(raw json.RawMessage) []rawPlan {
	var plans []rawPlan

	var asArray []json.RawMessage
	if err := json.Unmarshal(raw, &asArray); err == nil {
		for _, item := range asArray {
			plans = append(plans, collectPlans(item)...)
		}
		return plans
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil
	}

	if plan, ok := probePlan(asObject); ok {
		return []rawPlan{plan}
	}

	// Not a plan itself; descend. Catalogs have been seen wrapping the plan
	// list in a PRODUCT key one level down.
	for _, val := range asObject {
		plans = append(plans, collectPlans(val)...)
	}
	return plans
}

func probePlan(obj map[string]json.RawMessage) (rawPlan, bool) {
	id, okID := probeString(obj, idKeys)
	price, okPrice := probeString(obj, priceKeys)
	if !okID || !okPrice {
		return rawPlan{}, false
	}

	name, _ := probeString(obj, nameKeys)
	if name == "" {
		name = id
	}

	return rawPlan{ID: id, Price: price, Name: name}, true
}

// probeString tries candidate keys in order, tolerating both string and
// numeric JSON values.
func probeString(obj map[string]json.RawMessage, candidates []string) (string, bool) {
	for _, key := range candidates {
		for objKey, val := range obj {
			if !strings.EqualFold(objKey, key) {
				continue
			}

			var s string
			if err := json.Unmarshal(val, &s); err == nil {
				if s != "" {
					return s, true
				}
				continue
			}

			var n json.Number
			if err := json.Unmarshal(val, &n); err == nil {
				return n.String(), true
			}
		}
	}
	return "", false
}
