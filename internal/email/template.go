package email

// referralTemplate is the single built-in referral document. Conditional
// sections render independently of each other so any combination of missing
// optional fields still yields well-formed markup.
const referralTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Referral from {{.ReferrerName}}</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f8fafc; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', 'Helvetica Neue', Arial, sans-serif;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border: 1px solid #e5e7eb;">
        <div style="background-color: #2563eb; padding: 16px 24px;">
            <div style="background-color: #ffffff; padding: 10px 20px; border-radius: 8px; display: inline-block;">
                <h1 style="margin: 0; font-size: 20px; font-weight: bold; color: #2563eb;">ReferIQ</h1>
            </div>
            <p style="color: #dbeafe; font-size: 12px; margin: 8px 0 0 0;">New Referral Ready for Review</p>
        </div>
        <div style="padding: 24px;">
            <h2 style="color: #1f2937; font-size: 22px; font-weight: bold; margin: 0 0 16px 0;">Hi {{.RecipientName}},</h2>
            <p style="color: #4b5563; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">
                I hope this email finds you well. I'm excited to refer <strong>{{.CandidateName}}</strong> for the <strong>{{.Position}}</strong> position at your company.
            </p>
            <div style="margin: 0 0 20px 0;">
                <span style="display: inline-block; width: 40px; height: 40px; line-height: 40px; border-radius: 50%; background-color: #2563eb; color: #ffffff; font-size: 16px; font-weight: bold; text-align: center; vertical-align: middle;">{{.Initials}}</span>
                <span style="display: inline-block; margin-left: 12px; vertical-align: middle;">
                    <span style="display: block; font-size: 18px; font-weight: bold; color: #111827;">{{.CandidateName}}</span>
                    <span style="display: block; font-size: 14px; color: #6b7280;">{{.Position}}</span>
                    <span style="display: block; font-size: 12px; color: #2563eb;">Referred by {{.ReferrerName}} ({{.Relationship}})</span>
                </span>
            </div>
{{- if .HasVideo}}
            <div style="margin: 24px 0; text-align: center;">
                <h3 style="color: #1f2937; font-size: 18px; font-weight: 600; margin: 0 0 16px 0;">&#128249; Personal Video Message</h3>
{{- if .VideoThumbnailURL}}
                <a href="{{.LandingURL}}" style="display: inline-block;">
                    <img src="{{.VideoThumbnailURL}}" alt="Video message from {{.CandidateName}}" style="width: 100%; max-width: 400px; height: auto; border-radius: 8px; border: 2px solid #e5e7eb;">
                </a>
{{- else}}
                <a href="{{.LandingURL}}" style="display: inline-block; background-color: #1f2937; color: #ffffff; padding: 40px 80px; border-radius: 8px; text-decoration: none; font-size: 16px; font-weight: bold;">&#9654; Watch Endorsement</a>
{{- end}}
                <p style="color: #6b7280; font-size: 14px; margin: 8px 0 0 0;">Click to watch {{.CandidateName}}'s video message</p>
            </div>
{{- end}}
{{- if .EndorsementText}}
            <div style="background-color: #f9fafb; border-left: 4px solid #2563eb; padding: 16px; margin: 24px 0; border-radius: 4px;">
                <h3 style="color: #1f2937; font-size: 16px; font-weight: 600; margin: 0 0 8px 0;">My Endorsement:</h3>
                <p style="color: #4b5563; font-size: 15px; line-height: 1.6; margin: 0; font-style: italic;">&quot;{{.EndorsementText}}&quot;</p>
            </div>
{{- end}}
            <div style="background-color: #eff6ff; border-radius: 8px; padding: 20px; margin: 24px 0;">
                <h3 style="color: #1f2937; font-size: 16px; font-weight: 600; margin: 0 0 12px 0;">AI Referral Insights</h3>
                <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="border-collapse: collapse;">
                    <tr>
                        <td style="padding: 4px 0; color: #4b5563; font-size: 14px;">Role Fit</td>
                        <td style="padding: 4px 0; color: #2563eb; font-size: 14px; font-weight: bold; text-align: right;">{{.Insights.RoleFit}}%</td>
                    </tr>
                    <tr>
                        <td style="padding: 4px 0; color: #4b5563; font-size: 14px;">Cultural Fit</td>
                        <td style="padding: 4px 0; color: #2563eb; font-size: 14px; font-weight: bold; text-align: right;">{{.Insights.CulturalFit}}%</td>
                    </tr>
                    <tr>
                        <td style="padding: 4px 0; color: #4b5563; font-size: 14px;">Authenticity</td>
                        <td style="padding: 4px 0; color: #2563eb; font-size: 14px; font-weight: bold; text-align: right;">{{.Insights.Authenticity}}%</td>
                    </tr>
                </table>
{{- if .Insights.Summary}}
                <p style="color: #4b5563; font-size: 13px; line-height: 1.6; margin: 12px 0 0 0;">{{.Insights.Summary}}</p>
{{- end}}
            </div>
            <div style="margin: 32px 0; text-align: center;">
                <h3 style="color: #1f2937; font-size: 18px; font-weight: 600; margin: 0 0 16px 0;">Learn More About {{.CandidateName}}</h3>
{{- if .HasResume}}
                <a href="{{.LandingURL}}" style="display: inline-block; background-color: #dc2626; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none; font-size: 16px; font-weight: 500; margin: 8px;">&#128196; View Resume</a>
{{- end}}
{{- if .LinkedInURL}}
                <a href="{{.LinkedInURL}}" style="display: inline-block; background-color: #0077b5; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none; font-size: 16px; font-weight: 500; margin: 8px;">&#128188; LinkedIn Profile</a>
{{- end}}
{{- if .PortfolioURL}}
                <a href="{{.PortfolioURL}}" style="display: inline-block; background-color: #059669; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none; font-size: 16px; font-weight: 500; margin: 8px;">&#128279; Portfolio</a>
{{- end}}
            </div>
            <div style="background-color: #2563eb; border-radius: 8px; padding: 24px; text-align: center; margin: 32px 0;">
                <h3 style="color: #ffffff; font-size: 20px; font-weight: bold; margin: 0 0 12px 0;">Complete Candidate Profile</h3>
                <p style="color: #dbeafe; font-size: 16px; margin: 0 0 20px 0;">View the full referral package with AI insights and analysis</p>
                <a href="{{.LandingURL}}" style="display: inline-block; background-color: #ffffff; color: #2563eb; padding: 14px 28px; border-radius: 6px; text-decoration: none; font-size: 16px; font-weight: 600;">View Full Profile &#8594;</a>
            </div>
            <p style="color: #4b5563; font-size: 16px; line-height: 1.6; margin: 0 0 8px 0;">
                I believe {{.CandidateName}} would be an excellent addition to your team. Please let me know if you have any questions or would like to discuss this referral further.
            </p>
            <p style="color: #4b5563; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0;">
                Best regards,<br>
                <strong>{{.ReferrerName}}</strong>
            </p>
        </div>
        <div style="background-color: #f9fafb; padding: 20px 24px; text-align: center; border-top: 1px solid #e5e7eb;">
            <h4 style="margin: 0 0 8px 0; font-size: 16px; font-weight: bold; color: #2563eb;">ReferIQ</h4>
            <p style="color: #6b7280; font-size: 12px; margin: 0;">Powered by AI-driven referral insights</p>
        </div>
    </div>
</body>
</html>
`
