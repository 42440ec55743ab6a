package email

import "html/template"

const baseStyle = `
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #f8f9fa; padding: 20px; text-align: center; }
  .content { background-color: #fff; padding: 30px; border: 1px solid #ddd; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; }
  .order-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
  .order-table th { background-color: #f8f9fa; padding: 12px; text-align: left; border-bottom: 2px solid #dee2e6; }
  .order-table td { padding: 10px; border-bottom: 1px solid #eee; }
  .total-row { font-weight: bold; background-color: #f8f9fa; }
  .success { color: #28a745; }
  .error { color: #dc3545; }
  .warning { color: #ffc107; }
</style>
`

const itemsTable = `
<table class="order-table">
  <thead>
    <tr>
      <th>Item</th>
      <th style="text-align: center;">Qty</th>
      <th style="text-align: right;">Price</th>
      <th style="text-align: right;">Subtotal</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}
    <tr>
      <td>{{.Name}}{{.Variants}}</td>
      <td style="text-align: center;">{{.Quantity}}</td>
      <td style="text-align: right;">${{.Price}}</td>
      <td style="text-align: right;">${{.Subtotal}}</td>
    </tr>
    {{end}}
    <tr class="total-row">
      <td colspan="3" style="text-align: right; padding: 15px;">Total:</td>
      <td style="text-align: right; padding: 15px;">${{.Total}}</td>
    </tr>
  </tbody>
</table>
`

var approvedTmpl = template.Must(template.New("approved").Parse(baseStyle + `
<div class="container">
  <div class="header"><h1 class="success">Order Confirmed!</h1></div>
  <div class="content">
    <p>Dear {{.CustomerName}},</p>
    <p>Thank you for your order! We're excited to confirm that your payment has been processed successfully.</p>
    <h3>Order Details</h3>
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
    <p><strong>Transaction ID:</strong> {{.TransactionID}}</p>
    <p><strong>Status:</strong> <span class="success">Approved</span></p>
    <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    ` + itemsTable + `
    <h3>Shipping Information</h3>
    <p>{{.Address}}<br>{{.CityStateZip}}</p>
    <p>We'll send you another email with tracking information once your order ships.</p>
  </div>
  <div class="footer">
    <p>Thank you for shopping with us!</p>
    <p><small>This is an automated email. Please do not reply to this message.</small></p>
  </div>
</div>
`))

var declinedTmpl = template.Must(template.New("declined").Parse(baseStyle + `
<div class="container">
  <div class="header"><h1 class="error">Payment Declined</h1></div>
  <div class="content">
    <p>Dear {{.CustomerName}},</p>
    <p>We're sorry to inform you that your payment for order {{.OrderNumber}} has been declined by your card issuer.</p>
    <h3>Order Details</h3>
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
    <p><strong>Status:</strong> <span class="error">Declined</span></p>
    <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    <p><strong>Total:</strong> ${{.Total}}</p>
    <h3>What's Next?</h3>
    <ul>
      <li>Check that your card details are correct</li>
      <li>Ensure you have sufficient funds available</li>
      <li>Contact your bank to authorize the transaction</li>
      <li>Try using a different payment method</li>
    </ul>
    <p>You can retry your order anytime by visiting our website. Your items will remain available subject to inventory.</p>
  </div>
  <div class="footer">
    <p>We're here to help!</p>
    <p><small>This is an automated email. Please do not reply to this message.</small></p>
  </div>
</div>
`))

var failedTmpl = template.Must(template.New("failed").Parse(baseStyle + `
<div class="container">
  <div class="header"><h1 class="warning">Payment Processing Error</h1></div>
  <div class="content">
    <p>Dear {{.CustomerName}},</p>
    <p>We encountered a technical error while processing your payment for order {{.OrderNumber}}. This issue is temporary and not related to your payment method.</p>
    <h3>Order Details</h3>
    <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
    <p><strong>Status:</strong> <span class="warning">Processing Failed</span></p>
    <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    <p><strong>Total:</strong> ${{.Total}}</p>
    <h3>What's Next?</h3>
    <ul>
      <li>Wait 15-30 minutes and try again</li>
      <li>Clear your browser cache and cookies</li>
      <li>Try using a different browser or device</li>
      <li>Contact our customer service team</li>
    </ul>
    <p>We apologize for any inconvenience this may have caused. Our technical team has been notified and is working to resolve the issue.</p>
  </div>
  <div class="footer">
    <p>Thank you for your patience!</p>
    <p><small>This is an automated email. Please do not reply to this message.</small></p>
  </div>
</div>
`))
