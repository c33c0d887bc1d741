package cli

// WriteFile exposes writeFile to the external test package
var WriteFile = writeFile
