// Package cleaning implements the data-cleaning pipeline over a Working
// Table: dropping rows with missing values in selected columns, and treating
// outliers in numeric columns either by winsorization (clipping to quantile
// bounds) or by IQR-fence removal. Each run returns a fresh table plus a
// Report of what changed; the caller swaps the session's table wholesale.
package cleaning
