package config

import "reflect"

// diffEvent compares two config structs field-by-field and records the
// names of top-level fields whose values differ.
func diffEvent(old, new any) Event {
	var changed []string

	oldVal := reflect.ValueOf(old)
	newVal := reflect.ValueOf(new)
	if oldVal.Kind() == reflect.Ptr {
		oldVal = oldVal.Elem()
	}
	if newVal.Kind() == reflect.Ptr {
		newVal = newVal.Elem()
	}

	if oldVal.Kind() == reflect.Struct && newVal.Kind() == reflect.Struct {
		t := oldVal.Type()
		for i := 0; i < oldVal.NumField(); i++ {
			if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
				changed = append(changed, t.Field(i).Name)
			}
		}
	}

	return Event{ChangedKeys: changed, OldConfig: old, NewConfig: new}
}
