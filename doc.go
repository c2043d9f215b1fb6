// Package dcfsheet fills a discounted-cash-flow worksheet with market data.
//
// A run is a short, linear pipeline:
//   - Read the ticker symbol from a fixed cell of the worksheet.
//   - Fetch the financial statements and the quote information for that
//     ticker from a market data Provider.
//   - Scrape the 10-year treasury yield from a YieldSource.
//   - Write the resulting Snapshot into the fixed cells of the Layout.
//
// Every metric of a Snapshot is a decimal.NullDecimal: a metric that the
// provider does not report is "absent" (Valid is false), which is distinct
// from a failure to fetch. Absent metrics are written as empty cells.
//
// This package holds the domain types and the pipeline. Concrete sheets,
// providers and scrapers live in the gsheet, xlsx, yahoo, eodhd and treasury
// packages, and the `dcfs` command wires them together.
package dcfsheet
