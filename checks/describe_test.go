package checks

import (
	"encoding/json"
	"testing"
)

func TestDescribe(t *testing.T) {
	reg := DefaultRegistry()
	c, _ := reg.Lookup("tags")

	info := Describe(c, "project-1", "filter", nil)
	if info.ID != "tags" || info.Category != CategoryBasic {
		t.Errorf("info = %+v", info)
	}
	if len(info.Params) != 2 {
		t.Fatalf("len(Params) = %d, want 2", len(info.Params))
	}
	if info.Params[0].Type != TypeLabel || info.Params[0].Label != "Has tags" {
		t.Errorf("label param = %+v", info.Params[0])
	}
	tags := info.Params[1]
	if !tags.Dynamic || tags.OptionsLocator != "/filters/tags" || !tags.Multiple {
		t.Errorf("tags param = %+v", tags)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["uiType"] != "basic" || decoded["disableInEvals"] != true {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestDescribeAll(t *testing.T) {
	reg := DefaultRegistry()
	infos := DescribeAll(reg.ForEvals(), "project-1", "evaluator")
	if len(infos) != len(reg.ForEvals()) {
		t.Fatalf("len(DescribeAll) = %d, want %d", len(infos), len(reg.ForEvals()))
	}
	for _, info := range infos {
		if info.ExcludedFromEvals {
			t.Errorf("%s is excluded from evals", info.ID)
		}
	}
}
