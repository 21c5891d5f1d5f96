package monitor_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/srg/hrmon/internal/testutils"
	"github.com/srg/hrmon/internal/transport"
	"github.com/srg/hrmon/monitor"
)

const testScanWindow = 5 * time.Millisecond

type LocatorTestSuite struct {
	suite.Suite
}

func (suite *LocatorTestSuite) newLocator(adapter *testutils.FakeAdapter) *monitor.Locator {
	return monitor.NewLocator(testutils.NewFakeManager(adapter), testScanWindow, testutils.NewTestLogger())
}

func (suite *LocatorTestSuite) TestLocate_ReturnsMatchingAddress() {
	adapter := testutils.NewFakeAdapter(
		testutils.NewFakePeripheral("A", "AA:AA:AA:AA:AA:01"),
		testutils.NewFakePeripheral("B", "AA:AA:AA:AA:AA:02"),
		testutils.NewFakePeripheral("Target", "AA:AA:AA:AA:AA:03"),
	)

	addr, err := suite.newLocator(adapter).Locate(context.Background(), "Target")

	suite.NoError(err)
	suite.Equal("AA:AA:AA:AA:AA:03", addr)
	suite.Equal(1, adapter.Scans(), "locate MUST scan exactly once")
	suite.Equal(1, adapter.StopCalls, "scan MUST be stopped after the window")
}

func (suite *LocatorTestSuite) TestLocate_MatchIsExactAndCaseSensitive() {
	adapter := testutils.NewFakeAdapter(
		testutils.NewFakePeripheral("target", "AA:AA:AA:AA:AA:01"),
		testutils.NewFakePeripheral("Target Plus", "AA:AA:AA:AA:AA:02"),
	)

	_, err := suite.newLocator(adapter).Locate(context.Background(), "Target")

	suite.ErrorIs(err, monitor.ErrDeviceNotFound)
}

func (suite *LocatorTestSuite) TestLocate_AbsentDevice() {
	adapter := testutils.NewFakeAdapter(
		testutils.NewFakePeripheral("A", "AA:AA:AA:AA:AA:01"),
	)

	_, err := suite.newLocator(adapter).Locate(context.Background(), "Absent")

	suite.ErrorIs(err, monitor.ErrDeviceNotFound)
}

func (suite *LocatorTestSuite) TestLocate_NoAdapters() {
	locator := monitor.NewLocator(testutils.NewFakeManager(nil), testScanWindow, testutils.NewTestLogger())

	_, err := locator.Locate(context.Background(), "Target")

	suite.ErrorIs(err, transport.ErrNoAdapters)
}

func (suite *LocatorTestSuite) TestLocate_ScanFailurePropagates() {
	adapter := testutils.NewFakeAdapter(
		testutils.NewFakePeripheral("Target", "AA:AA:AA:AA:AA:01"),
	)
	adapter.StartErr = transport.WrapError("scan", fmt.Errorf("hci device is down"))

	_, err := suite.newLocator(adapter).Locate(context.Background(), "Target")

	suite.Error(err)
	var terr *transport.Error
	suite.ErrorAs(err, &terr, "scan failures MUST surface as transport errors")
}

func TestLocatorTestSuite(t *testing.T) {
	suite.Run(t, new(LocatorTestSuite))
}
