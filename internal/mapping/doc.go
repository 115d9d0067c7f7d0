// Package mapping provides the configuration model for contracts and their
// mapping methods, the //mapper: directive parser and the YAML override file.
//
// # Directives
//
// A contract is an interface marked in its doc comment:
//
//	//mapper:contract strict style=static ignoredMethods=Legacy ignoredRules=mismatched-field-count
//	type PersonMapper interface {
//		//mapper:method ignoredFields=Age nullSafe=false list
//		ToDTO(in *Person) *PersonDTO
//	}
//
// Keys are matched case-insensitively and ignore '_' and '-', so
// "ignoredFields", "ignored_fields" and "ignored-fields" are equivalent.
// A bare key sets a boolean option to true.
//
// # YAML overrides
//
// The mapping file overrides directive values per contract:
//
//	version: "1"
//	contracts:
//	  - contract: PersonMapper
//	    strict: true
//	    style: static
//	    ignored_methods: [Legacy]
//	    ignored_rules: [mismatched-field-count]
//	    methods:
//	      ToDTO:
//	        ignored_fields: Age
//	        null_safe: false
//	        list: true
//
// Only keys present in the file override; everything else keeps the value
// from the directives (or the defaults).
package mapping
