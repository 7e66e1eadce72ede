package catalog

import (
	"time"

	"github.com/duoscreen/orchestrator/internal/execctx"
	"github.com/duoscreen/orchestrator/internal/model"
)

// fakeDisplayController is a hand-rolled DisplayController recording calls
// the way the teacher's mock plugins record calls.
type fakeDisplayController struct {
	outputID, mode string
	primary        bool
	outputKnown    bool
	location       string
	locationKnown  bool

	setModeCalls     []fakeModeCall
	setLocationCalls []string
	setMatrixCalls   []fakeMatrixCall
	failSetMode      bool
}

type fakeModeCall struct {
	id, mode string
	primary  bool
}

type fakeMatrixCall struct {
	device string
	matrix [6]float64
}

func (f *fakeDisplayController) CurrentExternalOutput() (string, string, bool, bool) {
	return f.outputID, f.mode, f.primary, f.outputKnown
}

func (f *fakeDisplayController) CurrentDeckLocation() (string, bool) {
	return f.location, f.locationKnown
}

func (f *fakeDisplayController) SetExternalMode(id, mode string, primary bool) error {
	if f.failSetMode {
		return errSentinel
	}
	f.setModeCalls = append(f.setModeCalls, fakeModeCall{id: id, mode: mode, primary: primary})
	f.outputID, f.mode, f.primary, f.outputKnown = id, mode, primary, true
	return nil
}

func (f *fakeDisplayController) SetDeckLocation(location string) error {
	f.setLocationCalls = append(f.setLocationCalls, location)
	f.location, f.locationKnown = location, true
	return nil
}

func (f *fakeDisplayController) SetTouchMatrix(device string, matrix [6]float64) error {
	f.setMatrixCalls = append(f.setMatrixCalls, fakeMatrixCall{device: device, matrix: matrix})
	return nil
}

var errSentinel = sentinelError("fake failure")

// fakeBridge is a hand-rolled WindowManagerBridge.
type fakeBridge struct {
	settings map[string]string

	enabledScripts  map[string]bool
	failEnable      bool
	screenScope     *fakeScreenScope
	newWindowScope  *fakeNewWindowScope
	failOpenScreen  bool
	failOpenWindow  bool
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		settings:       make(map[string]string),
		enabledScripts: make(map[string]bool),
	}
}

func settingKey(section, key string) string { return section + "/" + key }

func (f *fakeBridge) GetSetting(section, key string) (string, bool) {
	v, ok := f.settings[settingKey(section, key)]
	return v, ok
}

func (f *fakeBridge) SetSetting(section, key, value string) error {
	f.settings[settingKey(section, key)] = value
	return nil
}

func (f *fakeBridge) EnableScript(name string) error {
	if f.failEnable {
		return errSentinel
	}
	f.enabledScripts[name] = true
	return nil
}

func (f *fakeBridge) DisableScript(name string) error {
	delete(f.enabledScripts, name)
	return nil
}

func (f *fakeBridge) OpenScreenTrackingScope() (execctx.ScreenTrackingScope, error) {
	if f.failOpenScreen {
		return nil, errSentinel
	}
	if f.screenScope == nil {
		f.screenScope = &fakeScreenScope{}
	}
	return f.screenScope, nil
}

func (f *fakeBridge) OpenNewWindowTrackingScope() (execctx.NewWindowTrackingScope, error) {
	if f.failOpenWindow {
		return nil, errSentinel
	}
	if f.newWindowScope == nil {
		f.newWindowScope = &fakeNewWindowScope{}
	}
	return f.newWindowScope, nil
}

type fakeScreenScope struct {
	handlers []func([]model.ScreenInfo)
	closed   bool
}

func (s *fakeScreenScope) Subscribe(handler func([]model.ScreenInfo)) execctx.Subscription {
	s.handlers = append(s.handlers, handler)
	idx := len(s.handlers) - 1
	return fakeSubscription{cancel: func() { s.handlers[idx] = nil }}
}

func (s *fakeScreenScope) Close() error { s.closed = true; return nil }

func (s *fakeScreenScope) publish(screens []model.ScreenInfo) {
	for _, h := range s.handlers {
		if h != nil {
			h(screens)
		}
	}
}

type fakeNewWindowScope struct {
	handlers []func(model.ClientInfo)
	closed   bool
}

func (s *fakeNewWindowScope) Subscribe(handler func(model.ClientInfo)) execctx.Subscription {
	s.handlers = append(s.handlers, handler)
	idx := len(s.handlers) - 1
	return fakeSubscription{cancel: func() { s.handlers[idx] = nil }}
}

func (s *fakeNewWindowScope) Close() error { s.closed = true; return nil }

func (s *fakeNewWindowScope) publish(client model.ClientInfo) {
	for _, h := range s.handlers {
		if h != nil {
			h(client)
		}
	}
}

type fakeSubscription struct {
	cancel func()
}

func (s fakeSubscription) Unsubscribe() { s.cancel() }

// fakeComposer is a hand-rolled ScreenComposer.
type fakeComposer struct {
	current      execctx.Topology
	composeCalls []execctx.Topology
	failCompose  bool
}

func (f *fakeComposer) CurrentTopology() (execctx.Topology, error) {
	return f.current, nil
}

func (f *fakeComposer) Compose(t execctx.Topology) error {
	if f.failCompose {
		return errSentinel
	}
	f.composeCalls = append(f.composeCalls, t)
	f.current = t
	return nil
}

// fakeSupervisor is a hand-rolled ProcessSupervisor.
type fakeSupervisor struct {
	nextPid     int
	alive       map[int]bool
	killCalls   []int
	launchCalls []string
	failLaunch  bool
}

func newFakeSupervisor() *fakeSupervisor {
	return &fakeSupervisor{nextPid: 100, alive: make(map[int]bool)}
}

func (f *fakeSupervisor) Launch(command string, args []string) (int, error) {
	if f.failLaunch {
		return 0, errSentinel
	}
	f.launchCalls = append(f.launchCalls, command)
	pid := f.nextPid
	f.nextPid++
	f.alive[pid] = true
	return pid, nil
}

func (f *fakeSupervisor) Find(timeout time.Duration) (int, error) { return 0, errSentinel }

func (f *fakeSupervisor) IsAlive(pid int) bool { return f.alive[pid] }

func (f *fakeSupervisor) Kill(pid int) error {
	f.killCalls = append(f.killCalls, pid)
	f.alive[pid] = false
	return nil
}

func (f *fakeSupervisor) Wait(pid int) error {
	f.alive[pid] = false
	return nil
}

// fakeOverlay is a hand-rolled OverlaySpawner.
type fakeOverlay struct {
	spawned, closed bool
	failSpawn       bool
}

func (f *fakeOverlay) Spawn() error {
	if f.failSpawn {
		return errSentinel
	}
	f.spawned = true
	return nil
}

func (f *fakeOverlay) Close() error {
	f.closed = true
	return nil
}

// fakeResolver is a hand-rolled PathResolver.
type fakeResolver struct {
	path      string
	failWith  error
}

func (f *fakeResolver) Resolve(kind SourceKind, custom string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.path, nil
}

// fakeSettingsFile is a hand-rolled SettingsFile.
type fakeSettingsFile struct {
	files      map[string]map[string]string
	writeCalls int
}

func newFakeSettingsFile() *fakeSettingsFile {
	return &fakeSettingsFile{files: make(map[string]map[string]string)}
}

func (f *fakeSettingsFile) Read(path string) (map[string]string, error) {
	values, ok := f.files[path]
	if !ok {
		return map[string]string{}, nil
	}
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return copied, nil
}

func (f *fakeSettingsFile) Write(path string, values map[string]string) error {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	f.files[path] = copied
	f.writeCalls++
	return nil
}

// fakeMatcher is a hand-rolled WindowMatcher: matches by exact caption.
type fakeMatcher struct{}

func (fakeMatcher) Match(candidates []model.ClientInfo, expectedCaption string) (model.ClientInfo, bool) {
	for _, c := range candidates {
		if c.Caption == expectedCaption {
			return c, true
		}
	}
	return model.ClientInfo{}, false
}

// fakeLayoutStore is a hand-rolled ControllerLayoutStore.
type fakeLayoutStore struct {
	active      map[string]string
	backups     map[string]string
	failRestore bool
}

func newFakeLayoutStore() *fakeLayoutStore {
	return &fakeLayoutStore{active: make(map[string]string), backups: make(map[string]string)}
}

func (f *fakeLayoutStore) CopyLayout(sourceName, destName string) error {
	f.active[destName] = sourceName
	return nil
}

func (f *fakeLayoutStore) BackupLayout(name, suffix string) error {
	f.backups[name+"."+suffix] = f.active[name]
	return nil
}

func (f *fakeLayoutStore) RestoreLayout(name, suffix string) error {
	if f.failRestore {
		return errSentinel
	}
	f.active[name] = f.backups[name+"."+suffix]
	return nil
}

func (f *fakeLayoutStore) DeleteBackup(name, suffix string) error {
	delete(f.backups, name+"."+suffix)
	return nil
}

func newTestContext(display execctx.DisplayController, bridge execctx.WindowManagerBridge, supervisor execctx.ProcessSupervisor) *execctx.Context {
	ctx := execctx.New(execctx.DeckyEnv{}, display, bridge, supervisor, execctx.GlobalConfig{})
	return ctx
}
