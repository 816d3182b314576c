// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ExistsError   GenericError
	InvalidError  GenericError
	LengthError   GenericError
	NotFoundError GenericError
	ProcessError  GenericError
	RecordError   GenericError
)

// common errors - keep in alphabetic order
var (
	AccountAlreadyDelegated     = InvalidError("account already delegated")
	AccountNotDelegated         = InvalidError("account not delegated")
	AlreadyExists               = ExistsError("already exists")
	AlreadyInitialised          = ExistsError("already initialised")
	BatchNotBalanced            = InvalidError("commit batch does not balance")
	CannotDecodeAccount         = RecordError("cannot decode account")
	CertificateFileExists       = ExistsError("certificate file already exists")
	ChecksumMismatch            = ProcessError("checksum mismatch")
	ConservationViolated        = ProcessError("conservation law violated")
	DatabaseIsNotSet            = ProcessError("database is not set")
	DecimalsMismatch            = InvalidError("mint decimals mismatch")
	DerivedOwner                = InvalidError("owner is a derived address")
	DuplicateRecord             = InvalidError("duplicate record in batch")
	EmptyBatch                  = InvalidError("empty commit batch")
	EscrowNotFound              = NotFoundError("escrow not found")
	InstructionAlreadyProcessed = ExistsError("instruction already processed")
	InsufficientBalance         = ProcessError("insufficient balance")
	InvalidAmount               = InvalidError("invalid amount")
	InvalidAuthority            = InvalidError("invalid authority")
	InvalidChain                = InvalidError("invalid chain")
	InvalidCommitFrequency      = InvalidError("invalid commit frequency")
	InvalidContext              = InvalidError("invalid execution context")
	InvalidCount                = InvalidError("invalid count")
	InvalidCursor               = InvalidError("invalid cursor")
	InvalidIpAddress            = InvalidError("invalid IP address")
	InvalidKeyLength            = InvalidError("invalid key length")
	InvalidKeyType              = InvalidError("invalid key type")
	InvalidLoggerChannel        = InvalidError("invalid logger channel")
	InvalidPortNumber           = InvalidError("invalid port number")
	InvalidSeeds                = LengthError("invalid seeds")
	InvalidSignature            = InvalidError("invalid signature")
	KeyFileExists               = ExistsError("key file already exists")
	MathOverflow                = ProcessError("math overflow")
	MintAlreadyExists           = ExistsError("mint already exists")
	MintMismatch                = InvalidError("mint mismatch")
	MintNotFound                = NotFoundError("mint not found")
	MissingParameters           = InvalidError("missing parameters")
	NoDerivedAddress            = ProcessError("no derived address found")
	NotAvailableDuringShutdown  = ProcessError("not available during shutdown")
	NotDerivedAddress           = InvalidError("not a derived address")
	NotDigest                   = RecordError("not a digest")
	NotInitialised              = NotFoundError("not initialised")
	NotInstructionPack          = RecordError("not instruction pack")
	NotPublicKey                = RecordError("not public key")
	RateLimiting                = InvalidError("rate limiting")
	SameEscrow                  = InvalidError("sender and receiver are the same escrow")
	SchemaMismatch              = RecordError("record schema mismatch")
	SignatureTooLong            = LengthError("signature too long")
	TokenAccountNotFound        = NotFoundError("token account not found")
	TooManyRecords              = LengthError("too many records")
	ValidatorMismatch           = InvalidError("validator mismatch")
	WrongExecutionContext       = InvalidError("wrong execution context")
	WrongNetworkForPublicKey    = InvalidError("wrong network for public key")
)

// the error interface methods
func (e GenericError) Error() string  { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// IsErrExists - determine the class of an error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - invalid error
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - length error
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - not found error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - process error
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRecord - record error
func IsErrRecord(e error) bool { _, ok := e.(RecordError); return ok }
