package mapper

import "strings"

const SchemaGroup = "urn:ietf:params:scim:schemas:core:2.0:Group"

// directoryObjectsBase prefixes member references on group writes; reads
// strip everything up to the trailing id segment.
const directoryObjectsBase = "https://graph.microsoft.com/v1.0/directoryObjects/"

const membersBindKey = "members@odata.bind"

// Group maps between SCIM Groups and native directory groups. Membership is
// represented upstream as directory-object reference URIs.
var Group = Mapping{
	Schema: SchemaGroup,
	Fields: []Field{
		{SCIMPath: "displayName", NativePath: "displayName"},
	},
	toSCIMHooks:   []Hook{groupReadMembers},
	fromSCIMHooks: []Hook{groupWriteMembers},
}

func groupReadMembers(native, scim map[string]any) {
	refs, ok := native[membersBindKey].([]any)
	if !ok {
		return
	}

	members := make([]any, 0, len(refs))

	for _, ref := range refs {
		uri, ok := ref.(string)
		if !ok {
			continue
		}

		segments := strings.Split(uri, "/")
		members = append(members, map[string]any{"value": segments[len(segments)-1]})
	}

	if len(members) > 0 {
		scim["members"] = members
	}
}

func groupWriteMembers(scim, native map[string]any) {
	entries, ok := scim["members"].([]any)
	if !ok {
		return
	}

	refs := make([]any, 0, len(entries))

	for _, entry := range entries {
		member, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		if id, ok := member["value"].(string); ok && id != "" {
			refs = append(refs, directoryObjectsBase+id)
		}
	}

	if len(refs) > 0 {
		native[membersBindKey] = refs
	}
}
