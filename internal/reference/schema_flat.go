package reference

import "encoding/json"

// decodeFlat adapts the older one-new-code-per-row layout:
//
//	{"Area":"ABA","SAD vecchio 1":"ABAV01","SAD vecchio nome 1":"...",
//	 "SAD nuovo 1":"AFAM001","SAD nuovo nome 1":"...",
//	 "Profili":"...","Campi disciplinari":"..."}
//
// Each row becomes one canonical record with a single new code. The scalar
// profile and field columns turn into one-element slices; an empty string
// becomes an empty slice and a missing column stays nil.
func decodeFlat(objects []map[string]json.RawMessage) []Record {
	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		rec := Record{
			Area:               Area(deref(optString(obj[keyArea]))),
			OldCode:            optString(obj[keyFlatOldCode]),
			OldCodeName:        optString(obj[keyFlatOldName]),
			DisciplinaryFields: scalarList(obj[keyFlatDiscField]),
		}
		if code := optString(obj[keyFlatNewCode]); code != nil {
			rec.NewCodes = []NewCode{{
				Code:     *code,
				Name:     optString(obj[keyFlatNewName]),
				Profiles: scalarList(obj[keyFlatProfile]),
			}}
		}
		records = append(records, rec)
	}
	return records
}

// scalarList lifts a scalar string column into a slice. Arrays are accepted
// too, since some exports already carry lists in these columns.
func scalarList(raw json.RawMessage) []string {
	if s := optString(raw); s != nil {
		if *s == "" {
			return []string{}
		}
		return []string{*s}
	}
	return optStrings(raw)
}
