// Package ledger is the in-memory engine of a plain-text, double-entry
// bookkeeping tool. It holds accounts, commodities, prices and transactions,
// and checks the rules that make a book trustworthy.
//
// The main pieces are:
//   - Amounts: exact decimal numbers tagged with a commodity and the number of
//     digits they were written with. MultiCurrencyAmount sums them and checks
//     they are zero within the tolerance their precision allows.
//   - Accounts: hierarchical names like "Assets:Bank:Checking", opened and
//     closed on given days, optionally restricted to one commodity, with
//     balance assertions.
//   - Inventories: the lots held by an account, each with its acquisition
//     cost. Reductions are matched against lots with the STRICT, FIFO or LIFO
//     booking method.
//   - Ledger: the aggregate of everything above. Entries are added with the
//     Add methods, and Errors validates the whole book in one pass, reporting
//     every problem. Some rules are only enabled by plugins, see
//     PluginCheckCommodity and PluginNoUnused.
//
// A Ledger renders itself in the ledger text format with String. Parsing that
// format lives outside of this package; the importer package builds ledgers
// from bank exports, and the bean command line tool works on them.
package ledger
