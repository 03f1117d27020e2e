package repository

// RequireDB lets the black box tests in repository_test share the database
// started by TestMain.
var RequireDB = requireDB
