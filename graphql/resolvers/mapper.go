package resolvers

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	gqlmodels "stockyard.GO/graphql/models"
	materialEntity "stockyard.GO/model/entity/material"
	inventoryRepo "stockyard.GO/model/repository/inventory"
	inventoryService "stockyard.GO/service/inventory"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// entityToFields flattens a struct into a field-name map for mapstructure.
// Decimals are stringified up front; handed the struct directly, mapstructure
// walks into the decimal's unexported fields and the decode fails. Empty
// strings are dropped so optional model pointers stay nil. Nested structs
// (timestamps, JSON columns) are skipped, no model carries them.
func entityToFields(in interface{}) map[string]interface{} {
	v := reflect.Indirect(reflect.ValueOf(in))
	t := v.Type()
	out := make(map[string]interface{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		fv := v.Field(i)
		if fv.Type() == decimalType {
			out[f.Name] = fv.Interface().(decimal.Decimal).String()
			continue
		}
		switch fv.Kind() {
		case reflect.String:
			if s := fv.String(); s != "" {
				out[f.Name] = s
			}
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Ptr:
		default:
			out[f.Name] = fv.Interface()
		}
	}
	return out
}

func decodeModel(in, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(entityToFields(in))
}

func materialToModel(m materialEntity.Material) (*gqlmodels.Material, error) {
	var out gqlmodels.Material
	if err := decodeModel(m, &out); err != nil {
		return nil, fmt.Errorf("map material %s: %w", m.Code, err)
	}
	return &out, nil
}

func componentToModel(d inventoryService.ComponentDetail) *gqlmodels.Component {
	out := &gqlmodels.Component{
		ComponentID:          fmt.Sprint(d.Entry.ComponentID),
		Code:                 d.Material.Code,
		ComponentType:        d.Entry.ComponentType,
		QuantityPerComposite: d.Entry.QuantityPerComposite.String(),
	}
	if d.Material.Name != "" {
		name := d.Material.Name
		out.Name = &name
	}
	if d.Entry.Unit != "" {
		unit := d.Entry.Unit
		out.Unit = &unit
	}
	return out
}

func summaryToModel(s *inventoryRepo.InventorySummary) (*gqlmodels.Summary, error) {
	var out gqlmodels.Summary
	if err := decodeModel(s, &out); err != nil {
		return nil, fmt.Errorf("map summary %s: %w", s.Code, err)
	}
	return &out, nil
}

func stockToModel(status inventoryService.StockStatus, stock *inventoryService.EffectiveStock) (*gqlmodels.StockInfo, error) {
	var out gqlmodels.StockInfo
	if err := decodeModel(stock, &out); err != nil {
		return nil, fmt.Errorf("map stock %s: %w", stock.Code, err)
	}
	out.Status = string(status)
	return &out, nil
}

func alertToModel(a inventoryService.Alert) (*gqlmodels.Alert, error) {
	var out gqlmodels.Alert
	if err := decodeModel(a, &out); err != nil {
		return nil, fmt.Errorf("map alert %s: %w", a.Code, err)
	}
	return &out, nil
}
