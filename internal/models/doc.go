// Package models defines the core domain models for the bill splitter.
//
// # Models
//
//   - Member: a participant in the bill split
//   - Item: a single priced line on the bill
//   - ExtractedItem: a line item produced by receipt extraction
//   - BillTotals: computed whole-bill figures (subtotal, discount, final total)
//   - MemberBreakdown: one member's computed share of the bill
//
// Monetary amounts use decimal.Decimal throughout so that repeated per-member
// divisions do not accumulate binary floating-point drift.
//
// # Design Principles
//
//  1. Models carry no behavior beyond display formatting
//  2. Derived figures (totals, breakdowns) are never persisted, always recomputed
//  3. Relationships use ID values, not pointers
package models
