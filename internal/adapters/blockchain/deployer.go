package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// DefaultConfirmTimeout bounds the receipt wait when none is configured
const DefaultConfirmTimeout = 5 * time.Minute

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Backend is the subset of an Ethereum client needed to deploy and confirm
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type dialFunc func(ctx context.Context, rpcURL string) (Backend, func(), error)

// DeployerAdapter implements ContractDeployer with go-ethereum bindings
type DeployerAdapter struct {
	network        *config.Network
	artifactPath   string
	confirmTimeout time.Duration
	log            *slog.Logger

	dial    dialFunc
	backend Backend
	closeFn func()
}

// NewDeployerAdapter creates a new deployer. The RPC connection is opened on
// first use.
func NewDeployerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *DeployerAdapter {
	timeout := cfg.ConfirmTimeout
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &DeployerAdapter{
		network:        cfg.Network,
		artifactPath:   cfg.ArtifactPath,
		confirmTimeout: timeout,
		log:            log,
		dial:           dialEthClient,
	}
}

func dialEthClient(ctx context.Context, rpcURL string) (Backend, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Close releases the RPC connection
func (d *DeployerAdapter) Close() {
	if d.closeFn != nil {
		d.closeFn()
		d.closeFn = nil
	}
	d.backend = nil
}

// Deploy submits a single creation transaction passing units to the
// constructor and waits for its receipt.
func (d *DeployerAdapter) Deploy(ctx context.Context, units *big.Int) (*domain.DeployedContract, error) {
	if d.network == nil {
		return nil, fmt.Errorf("no network configured")
	}
	chainID := d.network.ChainID

	if units == nil || units.Sign() < 0 || units.Cmp(maxUint256) > 0 {
		return nil, &domain.DeploymentError{
			ChainID: chainID,
			Kind:    domain.ErrConstructorRejected,
			Err:     fmt.Errorf("amount %v does not fit uint256", units),
		}
	}

	artifact, err := LoadArtifact(d.artifactPath)
	if err != nil {
		return nil, &domain.DeploymentError{ChainID: chainID, Kind: domain.ErrInvalidArtifact, Err: err}
	}

	key, err := parsePrivateKey(d.network.PrivateKey)
	if err != nil {
		return nil, &domain.DeploymentError{ChainID: chainID, Kind: domain.ErrSubmission, Err: err}
	}

	backend, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(uint64(chainID)))
	if err != nil {
		return nil, &domain.DeploymentError{ChainID: chainID, Kind: domain.ErrSubmission, Err: err}
	}
	auth.Context = ctx
	// Sign only, so the hash is known before anything reaches the node
	auth.NoSend = true

	address, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, backend, units)
	if err != nil {
		kind := domain.ErrSubmission
		if isRevert(err) {
			kind = domain.ErrConstructorRejected
		}
		return nil, &domain.DeploymentError{ChainID: chainID, Kind: kind, Err: err}
	}

	d.log.Debug("submitting deployment", "chain_id", chainID, "from", auth.From.Hex(), "tx", tx.Hash().Hex(), "units", units.String())

	if err := backend.SendTransaction(ctx, tx); err != nil {
		return nil, d.sendError(tx, err)
	}

	d.log.Info("deployment submitted", "chain_id", chainID, "tx", tx.Hash().Hex(), "address", address.Hex())

	receipt, err := d.waitReceipt(ctx, backend, tx)
	if err != nil {
		return nil, err
	}

	return &domain.DeployedContract{
		ChainID:     chainID,
		Address:     domain.AddressFromCommon(address),
		TxHash:      tx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		BlockHash:   receipt.BlockHash.Hex(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

// sendError classifies a failed broadcast. Only an explicit JSON-RPC
// rejection proves the node dropped the transaction; any other failure may
// have happened after the node accepted it.
func (d *DeployerAdapter) sendError(tx *types.Transaction, err error) error {
	chainID := d.network.ChainID
	txHash := tx.Hash().Hex()

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && !isAlreadyKnown(err) {
		kind := domain.ErrSubmission
		if isRevert(err) {
			kind = domain.ErrConstructorRejected
		}
		return &domain.DeploymentError{ChainID: chainID, Kind: kind, Err: err}
	}

	d.log.Warn("broadcast outcome unknown, check the transaction before deploying again",
		"chain_id", chainID, "tx", txHash, "error", err)
	return &domain.DeploymentError{ChainID: chainID, Kind: domain.ErrSubmission, TxHash: txHash, Submitted: true, Err: err}
}

// waitReceipt blocks until tx is mined or the confirmation window closes.
// The transaction is never resubmitted.
func (d *DeployerAdapter) waitReceipt(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
	chainID := d.network.ChainID
	txHash := tx.Hash().Hex()

	waitCtx, cancel := context.WithTimeout(ctx, d.confirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, backend, tx)
	if err != nil {
		kind := domain.ErrSubmission
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			kind = domain.ErrConfirmationTimeout
			err = fmt.Errorf("no receipt after %s: %w", d.confirmTimeout, err)
		case errors.Is(err, context.Canceled):
			kind = domain.ErrDeploymentCanceled
		}
		return nil, &domain.DeploymentError{ChainID: chainID, Kind: kind, TxHash: txHash, Submitted: true, Err: err}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.DeploymentError{
			ChainID:   chainID,
			Kind:      domain.ErrConstructorRejected,
			TxHash:    txHash,
			Submitted: true,
			Err:       fmt.Errorf("transaction reverted in block %d", receipt.BlockNumber.Uint64()),
		}
	}
	return receipt, nil
}

// connect dials the RPC once and checks it serves the configured chain
func (d *DeployerAdapter) connect(ctx context.Context) (Backend, error) {
	chainID := d.network.ChainID
	if d.backend == nil {
		backend, closeFn, err := d.dial(ctx, d.network.RPCURL)
		if err != nil {
			return nil, &domain.DeploymentError{
				ChainID: chainID,
				Kind:    domain.ErrSubmission,
				Err:     fmt.Errorf("failed to connect to RPC: %w", err),
			}
		}
		d.backend = backend
		d.closeFn = closeFn
	}

	remote, err := d.backend.ChainID(ctx)
	if err != nil {
		return nil, &domain.DeploymentError{
			ChainID: chainID,
			Kind:    domain.ErrSubmission,
			Err:     fmt.Errorf("failed to get chain ID: %w", err),
		}
	}
	if !remote.IsUint64() || remote.Uint64() != uint64(chainID) {
		return nil, &domain.DeploymentError{
			ChainID: chainID,
			Kind:    domain.ErrChainMismatch,
			Err:     fmt.Errorf("expected %d, RPC reports %s", chainID, remote),
		}
	}
	return d.backend, nil
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, fmt.Errorf("no private key configured")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		// never echo the key material
		return nil, fmt.Errorf("invalid private key")
	}
	return key, nil
}

func isRevert(err error) bool {
	return strings.Contains(err.Error(), "execution reverted")
}

// isAlreadyKnown matches the txpool answer for a transaction it already holds
func isAlreadyKnown(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already known")
}

// Ensure DeployerAdapter implements ContractDeployer
var _ usecase.ContractDeployer = (*DeployerAdapter)(nil)
