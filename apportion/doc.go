// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apportion allocates parliamentary seats in two scrutinies.

# Stages

Run executes every stage in order and either allocates all seats or returns
an error naming the stage that failed:

 1. ApportionRegions splits the seats among regions by the national quota
    round(total votes / seats), handing leftover seats to the largest
    remainders.
 2. Eligible keeps the parties whose national percentage reaches the
    threshold.
 3. RegionalScrutiny awards each region's eligible parties floor(votes / q)
    seats with the Hare quota q = round(region votes / (seats + 2)).
    TrimFirstScrutiny withdraws seats when the regions together won more than
    the seat total.
 4. NationalScrutiny pools the remainders of every region and divides the
    unallocated seats by the quota round(pooled / (seats + 1)).
 5. Reconcile places each national seat in the region where the party has
    its largest remainder.
 6. Aggregate derives the per-party summary, the vote usage partition, and
    the seat prices.

# Determinism

Rounding is half away from zero and every ranking breaks ties by input order,
so the same election always produces the same allocation.

# Errors

MissingInputError, MalformedInputError, and SeatTotalError carry the stage
that raised them; StageOf reads it from any wrapped error.

# Logging

Options.Logger receives one debug record per stage. A nil logger discards
them.
*/
package apportion
