package api

// Route constants for the API endpoints

const (
	// PingEndpoint is the health check endpoint.
	PingEndpoint = "/ping"

	// InfoEndpoint returns chain id, signer account and encryption mode.
	InfoEndpoint = "/info"

	// ProposalURLParam is the URL parameter carrying a proposal ID.
	ProposalURLParam = "proposalId"
	// ProposalsEndpoint lists active proposals (GET) and creates new ones (POST).
	ProposalsEndpoint = "/proposals"
	// ProposalEndpoint returns a single proposal snapshot.
	ProposalEndpoint = ProposalsEndpoint + "/{" + ProposalURLParam + "}"

	// VotesEndpoint casts an encrypted vote (POST).
	VotesEndpoint = "/votes"
	// VoteReceiptsEndpoint returns the local receipts for a proposal.
	VoteReceiptsEndpoint = VotesEndpoint + "/{" + ProposalURLParam + "}"

	// AddressURLParam is the URL parameter carrying an account address.
	AddressURLParam = "address"
	// ProfileEndpoint resolves the voter profile of an address.
	ProfileEndpoint = "/profile/{" + AddressURLParam + "}"

	// VotersEndpoint authorizes a batch of voters (POST).
	VotersEndpoint = "/voters"
)
