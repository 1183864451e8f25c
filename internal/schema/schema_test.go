package schema

import "testing"

func TestParseDocumentResolvesPrefabInheritance(t *testing.T) {
	doc := []byte(`{
		"result": {
			"items": [
				{"defindex": 1, "name": "base_weapon", "item_logname": "base", "item_class": "base_cls",
				 "attributes": {"damage bonus": {"value": 1.0}}},
				{"defindex": 2, "name": "rocket_launcher", "item_logname": "tf_projectile_rocket",
				 "prefab": "base_weapon", "item_class": "rocket_launcher",
				 "attributes": {"damage bonus": {"value": 2.0}, "set_charge_type": {"value": 0.0}}}
			]
		}
	}`)

	reg, err := parseDocument(doc)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}

	item, ok := reg.Get(2)
	if !ok {
		t.Fatalf("expected defindex 2 to resolve")
	}
	if item.LogName != "tf_projectile_rocket" {
		t.Errorf("LogName = %q, want tf_projectile_rocket", item.LogName)
	}
	if item.Class != "rocket_launcher" {
		t.Errorf("Class = %q, want rocket_launcher (own field should win over prefab)", item.Class)
	}
	if v, ok := item.AttrFloat("damage bonus"); !ok || v != 2.0 {
		t.Errorf("damage bonus = %v,%v, want 2.0,true (own attribute overrides prefab)", v, ok)
	}
	if v, ok := item.AttrFloat("set_charge_type"); !ok || v != 0.0 {
		t.Errorf("set_charge_type = %v,%v, want 0.0,true", v, ok)
	}
}

func TestGetUnknownDefindexReturnsFalse(t *testing.T) {
	reg := &Registry{items: map[int]Item{}}
	if _, ok := reg.Get(99999); ok {
		t.Fatalf("expected unknown defindex to return ok=false")
	}
}

func TestGetOnNilRegistryNeverPanics(t *testing.T) {
	var reg *Registry
	if _, ok := reg.Get(1); ok {
		t.Fatalf("expected ok=false on nil registry")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected Len()=0 on nil registry")
	}
}

func TestMergeIntoListAppendsPrefabs(t *testing.T) {
	dst := &Item{Attributes: map[string]Attribute{}}
	mergeInto(dst, Item{Prefabs: []string{"a"}})
	mergeInto(dst, Item{Prefabs: []string{"b"}})
	if len(dst.Prefabs) != 2 || dst.Prefabs[0] != "a" || dst.Prefabs[1] != "b" {
		t.Errorf("Prefabs = %v, want [a b]", dst.Prefabs)
	}
}
