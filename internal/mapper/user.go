package mapper

import "strings"

const SchemaUser = "urn:ietf:params:scim:schemas:core:2.0:User"

// User maps between SCIM Users and native directory users. The native schema
// holds a single mail attribute, so only the primary SCIM email survives the
// write direction and reads produce exactly one "work" email entry.
var User = Mapping{
	Schema: SchemaUser,
	Fields: []Field{
		{SCIMPath: "userName", NativePath: "userPrincipalName"},
		{SCIMPath: "displayName", NativePath: "displayName"},
		{SCIMPath: "name.givenName", NativePath: "givenName"},
		{SCIMPath: "name.familyName", NativePath: "surname"},
		{SCIMPath: "active", NativePath: "accountEnabled"},
	},
	toSCIMHooks:   []Hook{userReadExtras},
	fromSCIMHooks: []Hook{userWriteEmail},
}

func userReadExtras(native, scim map[string]any) {
	if upn, ok := getString(native, "userPrincipalName"); ok {
		scim["externalId"] = upn
	}

	given, _ := getString(native, "givenName")
	surname, _ := getString(native, "surname")

	if formatted := strings.TrimSpace(given + " " + surname); formatted != "" {
		setPath(scim, "name.formatted", formatted)
	}

	// The directory omits accountEnabled for some user types; SCIM consumers
	// expect an explicit active flag.
	if _, ok := scim["active"]; !ok {
		scim["active"] = true
	}

	if mail, ok := getString(native, "mail"); ok && mail != "" {
		scim["emails"] = []any{
			map[string]any{"value": mail, "type": "work", "primary": true},
		}
	}

	if phones, ok := native["businessPhones"].([]any); ok && len(phones) > 0 {
		numbers := make([]any, 0, len(phones))
		for _, phone := range phones {
			numbers = append(numbers, map[string]any{"value": phone, "type": "work"})
		}

		scim["phoneNumbers"] = numbers
	}
}

func userWriteEmail(scim, native map[string]any) {
	emails, ok := scim["emails"].([]any)
	if !ok {
		return
	}

	for _, entry := range emails {
		email, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		primary, _ := email["primary"].(bool)
		value, _ := email["value"].(string)

		if primary && value != "" {
			native["mail"] = value
			return
		}
	}
}
