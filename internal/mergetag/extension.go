// internal/mergetag/extension.go
package mergetag

import (
	"sitenotify/internal/trigger"
)

// PluginGroup exposes the plugin entity of extension triggers. The
// old_version tag only means anything when an update just happened, so
// it is restricted to the update trigger.
func PluginGroup() *Group {
	str := func(field func(fc *trigger.FireContext) string) Resolver {
		return func(fc *trigger.FireContext) string {
			if fc.Plugin == nil {
				return ""
			}
			return field(fc)
		}
	}
	return NewGroup("plugin", "Plugin",
		Tag{Key: "name", Label: "Plugin name", Resolve: str(func(fc *trigger.FireContext) string { return fc.Plugin.Name })},
		Tag{Key: "slug", Label: "Plugin slug", Resolve: str(func(fc *trigger.FireContext) string { return fc.Plugin.Slug })},
		Tag{Key: "version", Label: "Plugin version", Resolve: str(func(fc *trigger.FireContext) string { return fc.Plugin.Version })},
		Tag{Key: "author", Label: "Plugin author", Resolve: str(func(fc *trigger.FireContext) string { return fc.Plugin.Author })},
		Tag{Key: "uri", Label: "Plugin URI", Resolve: str(func(fc *trigger.FireContext) string { return fc.Plugin.URI })},
		Tag{
			Key:               "old_version",
			Label:             "Plugin previous version",
			RestrictToTrigger: "plugin-updated",
			Resolve:           func(fc *trigger.FireContext) string { return fc.PluginOldVersion },
		},
	)
}

// ThemeGroup exposes the theme entity of theme triggers. The previous
// theme tags are restricted to the switch trigger and old_version to
// the update trigger.
func ThemeGroup() *Group {
	str := func(field func(fc *trigger.FireContext) string) Resolver {
		return func(fc *trigger.FireContext) string {
			if fc.Theme == nil {
				return ""
			}
			return field(fc)
		}
	}
	return NewGroup("theme", "Theme",
		Tag{Key: "name", Label: "Theme name", Resolve: str(func(fc *trigger.FireContext) string { return fc.Theme.Name })},
		Tag{Key: "slug", Label: "Theme slug", Resolve: str(func(fc *trigger.FireContext) string { return fc.Theme.Slug })},
		Tag{Key: "version", Label: "Theme version", Resolve: str(func(fc *trigger.FireContext) string { return fc.Theme.Version })},
		Tag{Key: "author", Label: "Theme author", Resolve: str(func(fc *trigger.FireContext) string { return fc.Theme.Author })},
		Tag{Key: "uri", Label: "Theme URI", Resolve: str(func(fc *trigger.FireContext) string { return fc.Theme.URI })},
		Tag{
			Key:               "old_version",
			Label:             "Theme previous version",
			RestrictToTrigger: "theme-updated",
			Resolve:           func(fc *trigger.FireContext) string { return fc.ThemeOldVersion },
		},
		Tag{
			Key:               "previous_name",
			Label:             "Previous theme name",
			RestrictToTrigger: "theme-switched",
			Resolve: func(fc *trigger.FireContext) string {
				if fc.PreviousTheme == nil {
					return ""
				}
				return fc.PreviousTheme.Name
			},
		},
	)
}

// GeneralGroup exposes site-wide constants. Appended to every firing's
// group list by the engine.
func GeneralGroup() *Group {
	return NewGroup(GeneralGroupSlug, "Site",
		Tag{Key: "site_name", Label: "Site name", Resolve: func(fc *trigger.FireContext) string { return fc.Site.Name }},
		Tag{Key: "site_description", Label: "Site description", Resolve: func(fc *trigger.FireContext) string { return fc.Site.Description }},
		Tag{Key: "site_url", Label: "Site URL", Resolve: func(fc *trigger.FireContext) string { return fc.Site.URL }},
		Tag{Key: "admin_email", Label: "Admin email", Resolve: func(fc *trigger.FireContext) string { return fc.Site.AdminEmail }},
		Tag{Key: "trigger_slug", Label: "Trigger slug", Resolve: func(fc *trigger.FireContext) string { return fc.TriggerSlug }},
	)
}

// Defaults returns a registry preloaded with every built-in group.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(PostGroup())
	for _, g := range CommentDefaults() {
		r.Register(g)
	}
	for _, g := range UserDefaults() {
		r.Register(g)
	}
	r.Register(PluginGroup())
	r.Register(ThemeGroup())
	r.Register(GeneralGroup())
	return r
}
