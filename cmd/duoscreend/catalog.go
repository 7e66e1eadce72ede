package main

import (
	"github.com/duoscreen/orchestrator/internal/model"
	"github.com/duoscreen/orchestrator/internal/registrar"
)

// builtinCatalog is the closed set of action definitions wired at process
// start (§4.2). The platform root reaches every always-present screen/window
// action; the "secondary app" toplevel reaches the emulator-specific actions
// a profile may add on top of the platform.
func builtinCatalog() []registrar.PipelineActionDefinition {
	return []registrar.PipelineActionDefinition{
		{
			Id:   "core:session:platform",
			Kind: model.KindDesktopSessionHandler,
			DefaultChildren: []model.PipelineActionId{
				"core:display:config",
				"core:touch:config",
				"core:window:manager",
				"core:screen:bridge",
				"core:controller:override",
			},
		},
		{Id: "core:display:config", Kind: model.KindDisplayConfig},
		{Id: "core:touch:config", Kind: model.KindTouchConfig},
		{Id: "core:window:manager", Kind: model.KindMultiWindowManager},
		{Id: "core:screen:bridge", Kind: model.KindVirtualScreenBridge},
		{Id: "core:controller:override", Kind: model.KindDesktopControllerOverride},
		{
			Id:   "core:toplevel:secondary_app",
			Kind: model.KindSecondaryAppLauncher,
			DefaultChildren: []model.PipelineActionId{
				"core:emu:settings_source",
				"core:emu:layout_audio",
				"core:window:main_app_auto",
			},
		},
		{Id: "core:emu:settings_source", Kind: model.KindEmuSettingsSource},
		{Id: "core:emu:layout_audio", Kind: model.KindEmuLayoutAudio},
		{Id: "core:window:main_app_auto", Kind: model.KindMainAppAutoWindowing},
	}
}

// builtinTemplates seeds the in-memory template list get_templates serves
// (Template has no persisted row; see DESIGN.md).
func builtinTemplates() []model.Template {
	platform := model.TopLevelDefinition{
		Id:   "platform",
		Root: "core:session:platform",
		Actions: []model.PipelineActionId{
			"core:display:config",
			"core:touch:config",
			"core:window:manager",
			"core:screen:bridge",
			"core:controller:override",
		},
	}

	dualScreen := model.PipelineDefinition{
		Id:       "template:dual_screen",
		Name:     "Dual screen",
		Platform: platform,
		Toplevel: []model.TopLevelDefinition{
			{
				Id:   "secondary_app",
				Root: "core:toplevel:secondary_app",
				Actions: []model.PipelineActionId{
					"core:emu:settings_source",
					"core:emu:layout_audio",
					"core:window:main_app_auto",
				},
			},
		},
	}

	singleScreen := model.PipelineDefinition{
		Id:       "template:single_screen",
		Name:     "Single screen",
		Platform: platform,
	}

	return []model.Template{
		{Id: dualScreen.Id, Name: dualScreen.Name, Pipeline: dualScreen},
		{Id: singleScreen.Id, Name: singleScreen.Name, Pipeline: singleScreen},
	}
}
