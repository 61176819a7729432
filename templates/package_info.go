// Package templates resolves client-side template sources for components under test.
//
// In a deployed application the frontend build bundles every template, and the framework reads
// them from the bundle. Under test there is no bundle, so the Resolver looks for the sources where
// a developer's checkout has them:
//
// 1. registered custom loaders, in registration order;
//
// 2. for relative module references ("./view/my-view.js"): the project's frontend/ directory, then
// the packaged resource META-INF/resources/frontend/<path>;
//
// 3. for package references ("@ui/ui-button.js"): the project's node_modules/ directory.
//
// Install makes the framework use a Resolver instead of its bundle-only default.
package templates
