// Package services contains the business logic layer between the HTTP
// transport and the table/cleaning packages. The CleaningService owns the
// session store and the export writers and records Prometheus metrics for
// every operation.
package services
