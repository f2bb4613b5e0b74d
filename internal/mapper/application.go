package mapper

const SchemaApplication = "urn:ietf:params:scim:schemas:extension:entra:2.0:Application"

// Application maps between the SCIM-style application extension and native
// directory applications. Provider-assigned attributes (appId,
// publisherDomain, createdDateTime) never flow back on writes.
var Application = Mapping{
	Schema: SchemaApplication,
	Fields: []Field{
		{SCIMPath: "displayName", NativePath: "displayName"},
		{SCIMPath: "description", NativePath: "description"},
		{SCIMPath: "appId", NativePath: "appId", ReadOnly: true},
		{SCIMPath: "identifierUris", NativePath: "identifierUris"},
		{SCIMPath: "web.redirectUris", NativePath: "web.redirectUris"},
		{SCIMPath: "web.implicitGrantSettings", NativePath: "web.implicitGrantSettings"},
		{SCIMPath: "signInAudience", NativePath: "signInAudience"},
		{SCIMPath: "requiredResourceAccess", NativePath: "requiredResourceAccess"},
		{SCIMPath: "publisherDomain", NativePath: "publisherDomain", ReadOnly: true},
		{SCIMPath: "createdDateTime", NativePath: "createdDateTime", ReadOnly: true},
	},
	toSCIMHooks: []Hook{applicationReadEnabled},
}

func applicationReadEnabled(native, scim map[string]any) {
	disabled := false

	switch status := native["disabledByMicrosoftStatus"].(type) {
	case bool:
		disabled = status
	case string:
		disabled = status != ""
	}

	scim["isEnabled"] = !disabled
}
