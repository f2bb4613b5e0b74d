package mapper

const SchemaServicePrincipal = "urn:ietf:params:scim:schemas:extension:entra:2.0:ServicePrincipal"

// ServicePrincipal maps between the SCIM-style service principal extension
// and native directory service principals. appId is writable here: creating
// a service principal binds it to an existing application by appId.
var ServicePrincipal = Mapping{
	Schema: SchemaServicePrincipal,
	Fields: []Field{
		{SCIMPath: "displayName", NativePath: "displayName"},
		{SCIMPath: "description", NativePath: "description"},
		{SCIMPath: "appId", NativePath: "appId"},
		{SCIMPath: "accountEnabled", NativePath: "accountEnabled"},
		{SCIMPath: "appRoleAssignmentRequired", NativePath: "appRoleAssignmentRequired"},
		{SCIMPath: "tags", NativePath: "tags"},
		{SCIMPath: "replyUrls", NativePath: "replyUrls"},
		{SCIMPath: "homepage", NativePath: "homepage"},
		{SCIMPath: "logoutUrl", NativePath: "logoutUrl"},
		{SCIMPath: "servicePrincipalType", NativePath: "servicePrincipalType", ReadOnly: true},
		{SCIMPath: "appOwnerOrganizationId", NativePath: "appOwnerOrganizationId", ReadOnly: true},
		{SCIMPath: "appRoles", NativePath: "appRoles", ReadOnly: true},
		{SCIMPath: "oauth2PermissionScopes", NativePath: "oauth2PermissionScopes", ReadOnly: true},
		{SCIMPath: "createdDateTime", NativePath: "createdDateTime", ReadOnly: true},
	},
}
