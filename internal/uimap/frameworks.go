package uimap

var bootstrapClasses = ClassMap{
	"container":    "container",
	"row":          "row",
	"col":          "col",
	"btn":          "btn",
	"btn-primary":  "btn btn-primary",
	"btn-danger":   "btn btn-danger",
	"form-input":   "form-control",
	"form-select":  "form-select",
	"form-check":   "form-check-input",
	"form-label":   "form-label",
	"form-group":   "mb-3",
	"table":        "table",
	"alert-error":  "alert alert-danger",
	"alert-notice": "alert alert-info",
}

var uikitClasses = ClassMap{
	"container":    "uk-container",
	"row":          "uk-grid",
	"col":          "uk-width-expand",
	"btn":          "uk-button uk-button-default",
	"btn-primary":  "uk-button uk-button-primary",
	"btn-danger":   "uk-button uk-button-danger",
	"form-input":   "uk-input",
	"form-select":  "uk-select",
	"form-check":   "uk-checkbox",
	"form-label":   "uk-form-label",
	"form-group":   "uk-margin",
	"table":        "uk-table",
	"alert-error":  "uk-alert uk-alert-danger",
	"alert-notice": "uk-alert uk-alert-primary",
}

var tailwindClasses = ClassMap{
	"container":    "container mx-auto",
	"row":          "flex flex-wrap",
	"col":          "flex-1",
	"btn":          "px-4 py-2 rounded border",
	"btn-primary":  "px-4 py-2 rounded bg-blue-600 text-white",
	"btn-danger":   "px-4 py-2 rounded bg-red-600 text-white",
	"form-input":   "block w-full rounded border-gray-300",
	"form-select":  "block w-full rounded border-gray-300",
	"form-check":   "rounded border-gray-300",
	"form-label":   "block text-sm font-medium",
	"form-group":   "mb-4",
	"table":        "min-w-full divide-y",
	"alert-error":  "rounded bg-red-50 p-4 text-red-700",
	"alert-notice": "rounded bg-blue-50 p-4 text-blue-700",
}

var foundationClasses = ClassMap{
	"container":    "grid-container",
	"row":          "grid-x",
	"col":          "cell auto",
	"btn":          "button hollow",
	"btn-primary":  "button primary",
	"btn-danger":   "button alert",
	"form-input":   "input-group-field",
	"form-select":  "input-group-field",
	"form-check":   "checkbox",
	"form-label":   "form-label",
	"form-group":   "form-group",
	"table":        "table",
	"alert-error":  "callout alert",
	"alert-notice": "callout primary",
}

var bulmaClasses = ClassMap{
	"container":    "container",
	"row":          "columns",
	"col":          "column",
	"btn":          "button",
	"btn-primary":  "button is-primary",
	"btn-danger":   "button is-danger",
	"form-input":   "input",
	"form-select":  "select",
	"form-check":   "checkbox",
	"form-label":   "label",
	"form-group":   "field",
	"table":        "table",
	"alert-error":  "notification is-danger",
	"alert-notice": "notification is-info",
}

var materializeClasses = ClassMap{
	"container":    "container",
	"row":          "row",
	"col":          "col s12",
	"btn":          "btn-flat",
	"btn-primary":  "btn waves-effect",
	"btn-danger":   "btn red waves-effect",
	"form-input":   "validate",
	"form-select":  "browser-default",
	"form-check":   "filled-in",
	"form-label":   "active",
	"form-group":   "input-field",
	"table":        "striped",
	"alert-error":  "card-panel red lighten-4",
	"alert-notice": "card-panel blue lighten-4",
}
