// internal/trigger/plugin.go
package trigger

import (
	"context"
	"fmt"

	"sitenotify/internal/content"
)

func pluginCapture() CaptureFunc {
	return func(_ context.Context, _ content.Repository, payload interface{}) (*FireContext, error) {
		ev, ok := payload.(*content.PluginEvent)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", payload)
		}
		return &FireContext{Plugin: ev.Plugin, PluginOldVersion: ev.OldVersion}, nil
	}
}

func pluginDescriptor(slug, name, description, event string) *Descriptor {
	return &Descriptor{
		Slug:           slug,
		Name:           name,
		Description:    description,
		Group:          "plugin",
		Event:          event,
		MergeTagGroups: []string{"plugin"},
		Capture:        pluginCapture(),
	}
}

// PluginActivated fires when a plugin is switched on.
func PluginActivated() *Descriptor {
	return pluginDescriptor("plugin-activated", "Plugin activated",
		"Fires when a plugin is activated", content.EventPluginActivated)
}

// PluginDeactivated fires when a plugin is switched off.
func PluginDeactivated() *Descriptor {
	return pluginDescriptor("plugin-deactivated", "Plugin deactivated",
		"Fires when a plugin is deactivated", content.EventPluginDeactivated)
}

// PluginUpdated fires when a plugin is updated to a new version. The
// previous version merge tag is restricted to this trigger.
func PluginUpdated() *Descriptor {
	return pluginDescriptor("plugin-updated", "Plugin updated",
		"Fires when a plugin is updated", content.EventPluginUpdated)
}

// PluginInstalled fires when a new plugin is installed.
func PluginInstalled() *Descriptor {
	return pluginDescriptor("plugin-installed", "Plugin installed",
		"Fires when a plugin is installed", content.EventPluginInstalled)
}

// PluginRemoved fires when a plugin is deleted from the site.
func PluginRemoved() *Descriptor {
	return pluginDescriptor("plugin-removed", "Plugin removed",
		"Fires when a plugin is removed", content.EventPluginRemoved)
}

func themeCapture() CaptureFunc {
	return func(_ context.Context, _ content.Repository, payload interface{}) (*FireContext, error) {
		ev, ok := payload.(*content.ThemeEvent)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", payload)
		}
		return &FireContext{Theme: ev.Theme, ThemeOldVersion: ev.OldVersion, PreviousTheme: ev.Previous}, nil
	}
}

func themeDescriptor(slug, name, description, event string) *Descriptor {
	return &Descriptor{
		Slug:           slug,
		Name:           name,
		Description:    description,
		Group:          "theme",
		Event:          event,
		MergeTagGroups: []string{"theme"},
		Capture:        themeCapture(),
	}
}

// ThemeSwitched fires when the active theme changes.
func ThemeSwitched() *Descriptor {
	return themeDescriptor("theme-switched", "Theme switched",
		"Fires when the active theme is switched", content.EventThemeSwitched)
}

// ThemeUpdated fires when a theme is updated to a new version.
func ThemeUpdated() *Descriptor {
	return themeDescriptor("theme-updated", "Theme updated",
		"Fires when a theme is updated", content.EventThemeUpdated)
}

// ThemeInstalled fires when a new theme is installed.
func ThemeInstalled() *Descriptor {
	return themeDescriptor("theme-installed", "Theme installed",
		"Fires when a theme is installed", content.EventThemeInstalled)
}
