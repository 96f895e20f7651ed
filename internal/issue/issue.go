// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidRepoRootId
	ModuleIndexMissingId
	ModuleIndexBuildFailedId
	ModuleIndexMalformedId
	NoTestFoundId
	TooManyTestsId
	TestWithNoModuleId
	UnregisteredModuleId
	MissingPackageId
	PathOutsideRootId
	SearchTimeoutId
	TestConfigParseFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for this failure
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the Markdown guide with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	tradefedLink HttpLink = "https://source.android.com/docs/core/tests/tradefed"
	atestLink    HttpLink = "https://source.android.com/docs/core/tests/development/atest"

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

Your atest configuration file could not be read or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ atest config show
~~~
- Regenerate a default file:
~~~
$ atest config init --force
~~~
- Check ` + "`ATEST_*`" + ` environment variables for typos.`,
	}

	invalidRepoRootIssue = &Issue{
		id: InvalidRepoRootId,
		mdMsg: `
# Repository root is not usable

atest needs the root of an Android source tree to resolve test references.

## Things you can try:
- Set up the build environment so that ` + "`ANDROID_BUILD_TOP`" + ` is exported:
~~~
$ source build/envsetup.sh
$ lunch <target>
~~~
- Or point atest at the tree explicitly:
~~~
$ atest --root /path/to/aosp <reference>
~~~`,
		extLinks: []HttpLink{atestLink},
	}

	moduleIndexMissingIssue = &Issue{
		id: ModuleIndexMissingId,
		mdMsg: `
# module-info.json not found

The module index lives in the product output directory (` + "`$OUT`" + `) and is
generated by the build system.

## Things you can try:
- Make sure ` + "`lunch`" + ` has been run so that ` + "`OUT`" + ` is set.
- Generate the index once:
~~~
$ m module-info.json
~~~
- Enable automatic generation with ` + "`module_info.auto_build: true`" + ` in your config.`,
		extLinks: []HttpLink{atestLink},
	}

	moduleIndexBuildFailedIssue = &Issue{
		id: ModuleIndexBuildFailedId,
		mdMsg: `
# Generating module-info.json failed

The configured ` + "`module_info.build_command`" + ` exited with an error.

## Things you can try:
- Run the build command yourself and inspect its output.
- Check that ` + "`$ROOT`" + ` and ` + "`$TARGET`" + ` are used by your custom command.`,
	}

	moduleIndexMalformedIssue = &Issue{
		id: ModuleIndexMalformedId,
		mdMsg: `
# module-info.json is malformed

The module index could not be decoded. It may be truncated by an interrupted build.

## Things you can try:
- Delete the file and let atest regenerate it.`,
	}

	noTestFoundIssue = &Issue{
		id: NoTestFoundId,
		mdMsg: `
# No test found

The reference did not match a module, class, package, file path or integration.

## Accepted reference forms:
- Module: ` + "`CtsJankDeviceTestCases`" + `
- Class: ` + "`ScrollingTest`" + ` or ` + "`android.jank.cts.ui.ScrollingTest`" + `
- Module and class: ` + "`CtsJankDeviceTestCases:ScrollingTest`" + `
- File path: ` + "`cts/tests/jank/`" + `
- Integration: ` + "`native-benchmark`" + `

## Things you can try:
- List known modules:
~~~
$ atest modules <pattern>
~~~`,
		extLinks: []HttpLink{atestLink},
	}

	tooManyTestsIssue = &Issue{
		id: TooManyTestsId,
		mdMsg: `
# Reference is ambiguous

More than one test matches the reference.

## Things you can try:
- Use the fully qualified class name.
- Re-run interactively and pick one:
~~~
$ atest --interactive <reference>
~~~`,
	}

	testWithNoModuleIssue = &Issue{
		id: TestWithNoModuleId,
		mdMsg: `
# Test does not belong to a module

No directory between the test and the repository root contains an
` + "`AndroidTest.xml`" + ` or an auto-generated test config.

## Things you can try:
- Add the test to a module that has a test config.`,
		extLinks: []HttpLink{tradefedLink},
	}

	unregisteredModuleIssue = &Issue{
		id: UnregisteredModuleId,
		mdMsg: `
# Module directory is not in module-info.json

A test config was found but no installed module is registered at that path.

## Things you can try:
- Rebuild the index, the module may have been added recently:
~~~
$ m module-info.json
~~~`,
	}

	missingPackageIssue = &Issue{
		id: MissingPackageId,
		mdMsg: `
# Java file has no package declaration

The class was found but its fully qualified name could not be determined.`,
	}

	pathOutsideRootIssue = &Issue{
		id: PathOutsideRootId,
		mdMsg: `
# Path is outside the repository

File path references must point inside the repository root.`,
	}

	searchTimeoutIssue = &Issue{
		id: SearchTimeoutId,
		mdMsg: `
# Filesystem search timed out

## Things you can try:
- Raise ` + "`search.timeout`" + ` or set it to ` + "`0s`" + ` to disable the limit.
- Add large generated directories to ` + "`search.exclude_dirs`" + `.`,
	}

	testConfigParseFailedIssue = &Issue{
		id: TestConfigParseFailedId,
		mdMsg: `
# Test config could not be parsed

A module's ` + "`AndroidTest.xml`" + ` is not well-formed XML, so its build
dependencies could not be collected.`,
		extLinks: []HttpLink{tradefedLink},
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		invalidRepoRootIssue.Id():        invalidRepoRootIssue,
		moduleIndexMissingIssue.Id():     moduleIndexMissingIssue,
		moduleIndexBuildFailedIssue.Id(): moduleIndexBuildFailedIssue,
		moduleIndexMalformedIssue.Id():   moduleIndexMalformedIssue,
		noTestFoundIssue.Id():            noTestFoundIssue,
		tooManyTestsIssue.Id():           tooManyTestsIssue,
		testWithNoModuleIssue.Id():       testWithNoModuleIssue,
		unregisteredModuleIssue.Id():     unregisteredModuleIssue,
		missingPackageIssue.Id():         missingPackageIssue,
		pathOutsideRootIssue.Id():        pathOutsideRootIssue,
		searchTimeoutIssue.Id():          searchTimeoutIssue,
		testConfigParseFailedIssue.Id():  testConfigParseFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
