/*
Package market assembles the storage marketplace from its component ledgers:
the provider registry, the listing catalog, escrowed purchase settlement and
dispute resolution. It is the surface a host node is expected to construct
and drive.

Major Dependencies

Filecoin Repos:

https://github.com/filecoin-project/go-address - addresses identifying the market's parties
https://github.com/filecoin-project/go-state-types - token amounts and chain epochs
https://github.com/filecoin-project/go-statestore - for persisting market records

IPFS Project Repos:

https://github.com/ipfs/go-datastore - the persistence layer market records are stored in
https://github.com/ipfs/go-log - structured logging

Other Repos:

https://github.com/hannahhoward/go-pubsub - for dispute event notifications

The host node supplies a shared.MarketNode for chain height and ledger
transfers when constructing the StorageMarket. All value movement happens
through that node; the market itself only keeps records.
*/
package market
